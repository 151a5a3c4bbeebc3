package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
)

type AccountRulesResponse struct {
	Rules fieldrule.RuleSet `json:"rules"`
}

type AccountValidateResponse struct {
	Valid bool `json:"valid" example:"true"`
}

func (AccountValidateResponse) Message() string {
	return "Record is valid"
}

// AccountRequest documents the record accepted by create, update and
// validate. Handlers decode the body as a generic record so unexpected value
// types reach the rule engine.
type AccountRequest struct {
	AccountName           string `json:"AccountName" example:"Acme"`
	Email                 string `json:"email" example:"sales@acme.com"`
	PrimaryPhone          string `json:"PrimaryPhone" example:"+1 (555) 123-4567"`
	Website               string `json:"website"`
	Industry              string `json:"industry"`
	AccountType           string `json:"account_type" example:"customer"`
	City                  string `json:"city"`
	StateID               int64  `json:"state_id" example:"5"`
	Country               string `json:"country"`
	Description           string `json:"description"`
	NumberOfEmployees     int64  `json:"number_of_employees"`
	AnnualRevenue         int64  `json:"annual_revenue"`
	NumberOfVenues        int64  `json:"number_of_venues"`
	NumberOfReleases      int64  `json:"number_of_releases"`
	NumberOfEventsPerYear int64  `json:"number_of_events_per_year"`
}

type AccountResponse struct {
	ID                    int64     `json:"id,string"`
	AccountName           string    `json:"AccountName"`
	Email                 string    `json:"email"`
	PrimaryPhone          string    `json:"PrimaryPhone"`
	Website               string    `json:"website"`
	Industry              string    `json:"industry"`
	AccountType           string    `json:"account_type"`
	City                  string    `json:"city"`
	StateID               *int64    `json:"state_id"`
	Country               string    `json:"country"`
	Description           string    `json:"description"`
	NumberOfEmployees     *int64    `json:"number_of_employees"`
	AnnualRevenue         *int64    `json:"annual_revenue"`
	NumberOfVenues        *int64    `json:"number_of_venues"`
	NumberOfReleases      *int64    `json:"number_of_releases"`
	NumberOfEventsPerYear *int64    `json:"number_of_events_per_year"`
	CreatedBy             int64     `json:"created_by,string"`
	UpdatedBy             int64     `json:"updated_by,string"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func newAccountResponse(acc entity.Account) AccountResponse {
	return AccountResponse{
		ID:                    acc.ID,
		AccountName:           acc.AccountName,
		Email:                 acc.Email,
		PrimaryPhone:          acc.PrimaryPhone,
		Website:               acc.Website,
		Industry:              acc.Industry,
		AccountType:           string(acc.AccountType),
		City:                  acc.City,
		StateID:               acc.StateID,
		Country:               acc.Country,
		Description:           acc.Description,
		NumberOfEmployees:     acc.NumberOfEmployees,
		AnnualRevenue:         acc.AnnualRevenue,
		NumberOfVenues:        acc.NumberOfVenues,
		NumberOfReleases:      acc.NumberOfReleases,
		NumberOfEventsPerYear: acc.NumberOfEventsPerYear,
		CreatedBy:             acc.CreatedBy,
		UpdatedBy:             acc.UpdatedBy,
		CreatedAt:             acc.CreatedAt,
		UpdatedAt:             acc.UpdatedAt,
	}
}

type AccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r AccountsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type AccountDetailResponse struct {
	Account AccountResponse `json:"account"`
}

type AccountCreateResponse struct {
	Account AccountResponse `json:"account"`
}

func (AccountCreateResponse) Message() string {
	return "Account created"
}

func (AccountCreateResponse) StatusCode() int {
	return http.StatusCreated
}

type AccountUpdateResponse struct {
	Account AccountResponse `json:"account"`
}

func (AccountUpdateResponse) Message() string {
	return "Account updated"
}

type AccountDeleteResponse struct{}

func (AccountDeleteResponse) Message() string {
	return "Account deleted"
}

type BucketResponse struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type AccountSummaryResponse struct {
	TotalAccounts  int64            `json:"total_accounts"`
	TotalRevenue   int64            `json:"total_revenue"`
	TotalEmployees int64            `json:"total_employees"`
	ByIndustry     []BucketResponse `json:"by_industry"`
	ByAccountType  []BucketResponse `json:"by_account_type"`
	ByState        []BucketResponse `json:"by_state"`
}

type AccountExportRequest struct {
	Search      string `json:"search"`
	Industry    string `json:"industry"`
	StateID     int64  `json:"state_id"`
	AccountType string `json:"account_type"`
	SortBy      string `json:"sort_by"`
	SortOrder   string `json:"sort_order"`
}

type AccountExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (AccountExportResponse) Message() string {
	return "Export is ready to download"
}
