package main

import "time"

// GeneratedEvent is the payload sent from API -> SQS -> worker.
type GeneratedEvent struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
