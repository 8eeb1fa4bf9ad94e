// Copyright (c) 2026 LinkUp. All rights reserved.

package schema

// EventResponseTable represents the 'events.response' table
type EventResponseTable struct {
	Table       string
	ID          string
	EventID     string
	UserID      string
	Status      string
	RespondedAt string
}

// EventResponse is the schema definition for events.response
var EventResponse = EventResponseTable{
	Table:       "events.response",
	ID:          "id",
	EventID:     "eventid",
	UserID:      "userid",
	Status:      "status",
	RespondedAt: "respondedat",
}

func (t EventResponseTable) Columns() []string {
	return []string{t.ID, t.EventID, t.UserID, t.Status, t.RespondedAt}
}
