package inbound

import "github.com/shandysiswandi/gocrm/internal/region/entity"

type StateResponse struct {
	ID          int64  `json:"id,string" example:"5"`
	Code        string `json:"code" example:"CA"`
	Name        string `json:"name" example:"California"`
	CountryCode string `json:"country_code" example:"US"`
}

func newStateResponse(st entity.State) StateResponse {
	return StateResponse{
		ID:          st.ID,
		Code:        st.Code,
		Name:        st.Name,
		CountryCode: st.CountryCode,
	}
}

type StatesResponse struct {
	States []StateResponse `json:"states"`
}

type StateDetailResponse struct {
	State StateResponse `json:"state"`
}
