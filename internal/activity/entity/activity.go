package entity

import (
	"strings"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/valueobject"
)

type Kind string

const (
	KindCall    Kind = "call"
	KindEmail   Kind = "email"
	KindMeeting Kind = "meeting"
	KindNote    Kind = "note"
	// KindSystem is written by the service itself, never by clients.
	KindSystem Kind = "system"
)

// ParseKind matches s case-insensitively against the client kinds.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCall, KindEmail, KindMeeting, KindNote:
		return k, true
	default:
		return "", false
	}
}

// Metadata keys of system activities.
const (
	MetaEvent      = "event"
	MetaActorID    = "actor_id"
	MetaActorEmail = "actor_email"
	MetaOccurredAt = "occurred_at"
)

type Activity struct {
	ID           int64
	AccountID    int64
	Kind         Kind
	Subject      string
	Notes        string
	ContactEmail string
	ContactPhone string
	DueAt        *time.Time
	CompletedAt  *time.Time
	Metadata     valueobject.Metadata
	CreatedBy    int64
	CreatedAt    time.Time
}

func (a Activity) Completed() bool {
	return a.CompletedAt != nil
}

type ActivityListFilter struct {
	AccountID int64
	Kind      Kind
	Size      int32
	Offset    int32
}
