package models

import "time"

// Message is a single anonymous submission. Body, Category and SubmittedAt
// are immutable after creation; Read is the only mutable field.
type Message struct {
	ID          string    `json:"id"`
	Body        string    `json:"message"`
	Category    string    `json:"category"`
	SubmittedAt time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}
