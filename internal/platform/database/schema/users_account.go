// Copyright (c) 2026 LinkUp. All rights reserved.

// Package schema centralizes table and column name definitions so that SQL
// in the repository layer never contains hand-typed identifiers.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	TelegramID string
	Name       string
	AvatarURL  string
	Bio        string
	Interests  string
	Photos     string
	CreatedAt  string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	TelegramID: "telegramid",
	Name:       "name",
	AvatarURL:  "avatarurl",
	Bio:        "bio",
	Interests:  "interests",
	Photos:     "photos",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.TelegramID, t.Name, t.AvatarURL, t.Bio,
		t.Interests, t.Photos, t.CreatedAt, t.UpdatedAt,
	}
}
