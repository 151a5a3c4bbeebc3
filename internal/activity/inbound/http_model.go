package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/valueobject"
)

type ActivityCreateRequest struct {
	Kind         string     `json:"kind" example:"call"`
	Subject      string     `json:"subject" example:"Intro call"`
	Notes        string     `json:"notes"`
	ContactEmail string     `json:"contact_email" example:"buyer@acme.com"`
	ContactPhone string     `json:"contact_phone" example:"+1 555 123 4567"`
	DueAt        *time.Time `json:"due_at"`
}

type ActivityResponse struct {
	ID           int64                `json:"id,string"`
	AccountID    int64                `json:"account_id,string"`
	Kind         string               `json:"kind"`
	Subject      string               `json:"subject"`
	Notes        string               `json:"notes"`
	ContactEmail string               `json:"contact_email"`
	ContactPhone string               `json:"contact_phone"`
	DueAt        *time.Time           `json:"due_at"`
	CompletedAt  *time.Time           `json:"completed_at"`
	Metadata     valueobject.Metadata `json:"metadata"`
	CreatedBy    int64                `json:"created_by,string"`
	CreatedAt    time.Time            `json:"created_at"`
}

func newActivityResponse(act entity.Activity) ActivityResponse {
	meta := act.Metadata
	if meta == nil {
		meta = valueobject.Metadata{}
	}

	return ActivityResponse{
		ID:           act.ID,
		AccountID:    act.AccountID,
		Kind:         string(act.Kind),
		Subject:      act.Subject,
		Notes:        act.Notes,
		ContactEmail: act.ContactEmail,
		ContactPhone: act.ContactPhone,
		DueAt:        act.DueAt,
		CompletedAt:  act.CompletedAt,
		Metadata:     meta,
		CreatedBy:    act.CreatedBy,
		CreatedAt:    act.CreatedAt,
	}
}

type ActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r ActivitiesResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type ActivityCreateResponse struct {
	Activity ActivityResponse `json:"activity"`
}

func (ActivityCreateResponse) Message() string {
	return "Activity created"
}

func (ActivityCreateResponse) StatusCode() int {
	return http.StatusCreated
}

type ActivityCompleteResponse struct {
	Activity ActivityResponse `json:"activity"`
}

func (ActivityCompleteResponse) Message() string {
	return "Activity completed"
}

type ActivityDeleteResponse struct{}

func (ActivityDeleteResponse) Message() string {
	return "Activity deleted"
}
