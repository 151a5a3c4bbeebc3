package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/activity/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for account activities.
type HTTPEndpoint struct {
	uc uc
}

// @Summary List account activities
// @Description Returns an account's activities, newest first.
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path int true "Account ID"
// @Param kind query string false "call, email, meeting, note or system"
// @Param page query int false "Page, starting at 1"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} router.successResponse{data=ActivitiesResponse} "Activities"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/accounts/{id}/activities [get]
func (h *HTTPEndpoint) ActivityList(r *router.Request) (any, error) {
	accountID, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ActivityList(r.Context(), usecase.ActivityListInput{
		AccountID: accountID,
		Kind:      r.GetQuery("kind"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		return nil, err
	}

	return ActivitiesResponse{
		total:      resp.Total,
		size:       resp.Size,
		page:       resp.Page,
		Activities: lo.Map(resp.Activities, func(act entity.Activity, _ int) ActivityResponse { return newActivityResponse(act) }),
	}, nil
}

// @Summary Create activity
// @Tags Activity
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body ActivityCreateRequest true "Activity"
// @Success 201 {object} router.successResponse{data=ActivityCreateResponse} "Activity created"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/accounts/{id}/activities [post]
func (h *HTTPEndpoint) ActivityCreate(r *router.Request) (any, error) {
	accountID, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ActivityCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	act, err := h.uc.ActivityCreate(r.Context(), usecase.ActivityCreateInput{
		AccountID:    accountID,
		Kind:         req.Kind,
		Subject:      req.Subject,
		Notes:        req.Notes,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		DueAt:        req.DueAt,
	})
	if err != nil {
		return nil, err
	}

	return ActivityCreateResponse{Activity: newActivityResponse(*act)}, nil
}

// @Summary Complete activity
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} router.successResponse{data=ActivityCompleteResponse} "Activity completed"
// @Failure 404 {object} router.errorResponse "Activity not found"
// @Failure 409 {object} router.errorResponse "Activity already completed"
// @Router /api/v1/activities/{id}/complete [post]
func (h *HTTPEndpoint) ActivityComplete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	act, err := h.uc.ActivityComplete(r.Context(), usecase.ActivityCompleteInput{ID: id})
	if err != nil {
		return nil, err
	}

	return ActivityCompleteResponse{Activity: newActivityResponse(*act)}, nil
}

// @Summary Delete activity
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} router.successResponse "Activity deleted"
// @Failure 404 {object} router.errorResponse "Activity not found"
// @Router /api/v1/activities/{id} [delete]
func (h *HTTPEndpoint) ActivityDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.ActivityDelete(r.Context(), usecase.ActivityDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return ActivityDeleteResponse{}, nil
}
