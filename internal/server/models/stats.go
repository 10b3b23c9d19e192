package models

// Stats aggregates the message table for the moderation dashboard.
// ByCategory only contains categories with at least one message.
type Stats struct {
	Total      int            `json:"total"`
	Unread     int            `json:"unread"`
	ByCategory map[string]int `json:"byCategory"`
}
