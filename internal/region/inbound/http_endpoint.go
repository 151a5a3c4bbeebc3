package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"github.com/shandysiswandi/gocrm/internal/region/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// @Summary List states
// @Description Lists the states or provinces of a country. Without a country every state is returned.
// @Tags Region
// @Security BearerAuth
// @Produce json
// @Param country query string false "ISO 3166-1 alpha-2 country code" example(US)
// @Success 200 {object} router.successResponse{data=StatesResponse} "States"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Router /api/v1/states [get]
func (h *HTTPEndpoint) StateList(r *router.Request) (any, error) {
	states, err := h.uc.StateList(r.Context(), usecase.StateListInput{Country: r.GetQuery("country")})
	if err != nil {
		return nil, err
	}

	return StatesResponse{
		States: lo.Map(states, func(st entity.State, _ int) StateResponse { return newStateResponse(st) }),
	}, nil
}

// @Summary Get state
// @Tags Region
// @Security BearerAuth
// @Produce json
// @Param id path int true "State ID"
// @Success 200 {object} router.successResponse{data=StateDetailResponse} "State"
// @Failure 404 {object} router.errorResponse "State not found"
// @Router /api/v1/states/{id} [get]
func (h *HTTPEndpoint) StateDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	st, err := h.uc.StateDetail(r.Context(), usecase.StateDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return StateDetailResponse{State: newStateResponse(*st)}, nil
}
