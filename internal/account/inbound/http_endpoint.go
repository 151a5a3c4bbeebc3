package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for accounts.
type HTTPEndpoint struct {
	uc uc
}

// AccountRules publishes the account rule set.
// @Summary Account validation rules
// @Description Returns the ordered rule set the server applies to account records, so clients run the same checks.
// @Tags Account
// @Produce json
// @Success 200 {object} router.successResponse{data=AccountRulesResponse} "Rule set"
// @Router /api/v1/accounts-rules [get]
func (h *HTTPEndpoint) AccountRules(r *router.Request) (any, error) {
	return AccountRulesResponse{Rules: h.uc.AccountRules(r.Context())}, nil
}

// @Summary Validate account record
// @Description Runs the account checks without saving anything.
// @Tags Account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AccountRequest true "Account record"
// @Success 200 {object} router.successResponse{data=AccountValidateResponse} "Record is valid"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Router /api/v1/accounts-validate [post]
func (h *HTTPEndpoint) AccountValidate(r *router.Request) (any, error) {
	rec, err := r.DecodeRecord()
	if err != nil {
		return nil, err
	}

	if err := h.uc.AccountValidate(r.Context(), usecase.AccountValidateInput{Record: fieldrule.Record(rec)}); err != nil {
		return nil, err
	}

	return AccountValidateResponse{Valid: true}, nil
}

// @Summary List accounts
// @Description Returns a page of accounts matching the filters.
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name or email contains"
// @Param industry query string false "Industry"
// @Param state_id query int false "State ID"
// @Param account_type query string false "prospect, customer, partner or vendor"
// @Param sort_by query string false "name, created_at, annual_revenue or number_of_employees"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page, starting at 1"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} router.successResponse{data=AccountsResponse} "Accounts"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/accounts [get]
func (h *HTTPEndpoint) AccountList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	stateID, err := r.GetQueryInt64("state_id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AccountList(r.Context(), usecase.AccountListInput{
		Search:      r.GetQuery("search"),
		Industry:    r.GetQuery("industry"),
		StateID:     stateID,
		AccountType: r.GetQuery("account_type"),
		SortBy:      r.GetQuery("sort_by"),
		SortOrder:   r.GetQuery("sort_order"),
		Page:        page,
		Size:        size,
	})
	if err != nil {
		return nil, err
	}

	return AccountsResponse{
		total:    resp.Total,
		size:     resp.Size,
		page:     resp.Page,
		Accounts: lo.Map(resp.Accounts, func(acc entity.Account, _ int) AccountResponse { return newAccountResponse(acc) }),
	}, nil
}

// @Summary Get account detail
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} router.successResponse{data=AccountDetailResponse} "Account detail"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/accounts/{id} [get]
func (h *HTTPEndpoint) AccountDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	acc, err := h.uc.AccountDetail(r.Context(), usecase.AccountDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return AccountDetailResponse{Account: newAccountResponse(*acc)}, nil
}

// @Summary Create account
// @Description Validates the record, stores the account and publishes account_created. A repeated Idempotency-Key returns the first result.
// @Tags Account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated retry key"
// @Param request body AccountRequest true "Account record"
// @Success 201 {object} router.successResponse{data=AccountCreateResponse} "Account created"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 409 {object} router.errorResponse "Email already exists or request in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/accounts [post]
func (h *HTTPEndpoint) AccountCreate(r *router.Request) (any, error) {
	rec, err := r.DecodeRecord()
	if err != nil {
		return nil, err
	}

	acc, err := h.uc.AccountCreate(r.Context(), usecase.AccountCreateInput{
		Record:         fieldrule.Record(rec),
		IdempotencyKey: r.IdempotencyKey(),
	})
	if err != nil {
		return nil, err
	}

	return AccountCreateResponse{Account: newAccountResponse(*acc)}, nil
}

// @Summary Update account
// @Tags Account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body AccountRequest true "Account record"
// @Success 200 {object} router.successResponse{data=AccountUpdateResponse} "Account updated"
// @Failure 400 {object} router.errorResponse "Validation failed"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 409 {object} router.errorResponse "Email already exists"
// @Router /api/v1/accounts/{id} [put]
func (h *HTTPEndpoint) AccountUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	rec, err := r.DecodeRecord()
	if err != nil {
		return nil, err
	}

	acc, err := h.uc.AccountUpdate(r.Context(), usecase.AccountUpdateInput{ID: id, Record: fieldrule.Record(rec)})
	if err != nil {
		return nil, err
	}

	return AccountUpdateResponse{Account: newAccountResponse(*acc)}, nil
}

// @Summary Delete account
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} router.successResponse "Account deleted"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/accounts/{id} [delete]
func (h *HTTPEndpoint) AccountDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.AccountDelete(r.Context(), usecase.AccountDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return AccountDeleteResponse{}, nil
}

// @Summary Account summary report
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=AccountSummaryResponse} "Summary"
// @Router /api/v1/accounts-summary [get]
func (h *HTTPEndpoint) AccountSummary(r *router.Request) (any, error) {
	sum, err := h.uc.AccountSummary(r.Context())
	if err != nil {
		return nil, err
	}

	buckets := func(bs []entity.Bucket) []BucketResponse {
		return lo.Map(bs, func(b entity.Bucket, _ int) BucketResponse {
			return BucketResponse{Key: b.Key, Count: b.Count}
		})
	}

	return AccountSummaryResponse{
		TotalAccounts:  sum.TotalAccounts,
		TotalRevenue:   sum.TotalRevenue,
		TotalEmployees: sum.TotalEmployees,
		ByIndustry:     buckets(sum.ByIndustry),
		ByAccountType:  buckets(sum.ByAccountType),
		ByState:        buckets(sum.ByState),
	}, nil
}

// @Summary Export accounts
// @Description Writes the matching accounts to a CSV file in object storage and returns a download link.
// @Tags Account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AccountExportRequest false "Filters"
// @Success 200 {object} router.successResponse{data=AccountExportResponse} "Export ready"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/accounts-export [post]
func (h *HTTPEndpoint) AccountExport(r *router.Request) (any, error) {
	var req AccountExportRequest
	if r.ContentLength != 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	resp, err := h.uc.AccountExport(r.Context(), usecase.AccountExportInput{
		Search:      req.Search,
		Industry:    req.Industry,
		StateID:     req.StateID,
		AccountType: req.AccountType,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return AccountExportResponse{
		Key:       resp.Key,
		URL:       resp.URL,
		Rows:      resp.Rows,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
