// Copyright (c) 2026 LinkUp. All rights reserved.

package schema

// EventTable represents the 'events.event' table
type EventTable struct {
	Table       string
	ID          string
	CreatorID   string
	Title       string
	Description string
	Location    string
	StartsAt    string
	EventType   string
	IsOpen      string
	CreatedAt   string
	UpdatedAt   string
}

// Event is the schema definition for events.event
var Event = EventTable{
	Table:       "events.event",
	ID:          "id",
	CreatorID:   "creatorid",
	Title:       "title",
	Description: "description",
	Location:    "location",
	StartsAt:    "startsat",
	EventType:   "eventtype",
	IsOpen:      "isopen",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t EventTable) Columns() []string {
	return []string{
		t.ID, t.CreatorID, t.Title, t.Description, t.Location,
		t.StartsAt, t.EventType, t.IsOpen, t.CreatedAt, t.UpdatedAt,
	}
}
