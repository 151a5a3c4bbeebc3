// Package uid generates identifiers: int64 ids for rows and UUID strings for
// correlation ids and object names.
package uid

import "github.com/google/uuid"

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates version 7 UUIDs. They sort by creation time, so export
// objects named after them list oldest first.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a v7 UUID, or a random v4 one if the v7 clock read fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
