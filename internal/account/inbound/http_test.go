package inbound_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/account/inbound"
	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsecase struct{ mock.Mock }

func (m *mockUsecase) AccountRules(ctx context.Context) fieldrule.RuleSet {
	return m.Called(ctx).Get(0).(fieldrule.RuleSet)
}

func (m *mockUsecase) AccountValidate(ctx context.Context, in usecase.AccountValidateInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUsecase) AccountList(ctx context.Context, in usecase.AccountListInput) (*usecase.AccountListOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.AccountListOutput)
	return out, args.Error(1)
}

func (m *mockUsecase) AccountDetail(ctx context.Context, in usecase.AccountDetailInput) (*entity.Account, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.Account)
	return out, args.Error(1)
}

func (m *mockUsecase) AccountCreate(ctx context.Context, in usecase.AccountCreateInput) (*entity.Account, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.Account)
	return out, args.Error(1)
}

func (m *mockUsecase) AccountUpdate(ctx context.Context, in usecase.AccountUpdateInput) (*entity.Account, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.Account)
	return out, args.Error(1)
}

func (m *mockUsecase) AccountDelete(ctx context.Context, in usecase.AccountDeleteInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUsecase) AccountSummary(ctx context.Context) (*entity.AccountSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*entity.AccountSummary)
	return out, args.Error(1)
}

func (m *mockUsecase) AccountExport(ctx context.Context, in usecase.AccountExportInput) (*usecase.AccountExportOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.AccountExportOutput)
	return out, args.Error(1)
}

var testSecret = []byte(strings.Repeat("s", 64))

func newServer(t *testing.T) (*mockUsecase, http.Handler, string) {
	t.Helper()

	j, err := jwt.NewHS512(jwt.Config{Secret: testSecret, Issuer: "gocrm", TTL: time.Hour})
	require.NoError(t, err)

	token, err := j.Generate(jwt.Subject{UserID: 7, Email: "rep@crm.test", Role: "sales"})
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		JWT:             j,
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: []string{"GET /api/v1/accounts-rules"},
	})

	uc := new(mockUsecase)
	inbound.RegisterHTTPEndpoint(r, uc)
	t.Cleanup(func() { uc.AssertExpectations(t) })

	return uc, r, token
}

type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    json.RawMessage      `json:"data"`
	Meta    map[string]any       `json:"meta"`
	Errors  []goerror.FieldError `json:"errors"`
	Error   string               `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, token, body string, headers ...string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func TestHTTP_AccountRules_Public(t *testing.T) {
	t.Parallel()

	uc, h, _ := newServer(t)
	uc.On("AccountRules", mock.Anything).Return(entity.AccountRules).Once()

	code, env := do(t, h, http.MethodGet, "/api/v1/accounts-rules", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var data struct {
		Rules []map[string]any `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Rules, len(entity.AccountRules))
	assert.Equal(t, "AccountName", data.Rules[0]["field"])
	assert.Equal(t, "required", data.Rules[0]["kind"])
}

func TestHTTP_RequiresToken(t *testing.T) {
	t.Parallel()

	_, h, _ := newServer(t)

	code, env := do(t, h, http.MethodPost, "/api/v1/accounts-validate", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestHTTP_AccountCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	employees := int64(50)

	tests := []struct {
		name     string
		body     string
		setup    func(uc *mockUsecase)
		wantCode int
		check    func(t *testing.T, env envelope)
	}{
		{
			name:     "body is not an object",
			body:     `["AccountName"]`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, env envelope) {
				assert.Equal(t, "Validation error", env.Message)
				assert.Equal(t, "Request body must be a JSON object", env.Error)
				assert.Empty(t, env.Errors)
			},
		},
		{
			name: "field violations",
			body: `{"AccountName":"","email":"bad","PrimaryPhone":"12","number_of_employees":-1}`,
			setup: func(uc *mockUsecase) {
				uc.On("AccountCreate", mock.Anything, mock.Anything).Return(nil, goerror.NewFieldViolations(
					goerror.FieldError{Field: "AccountName", Message: fieldrule.MsgRequired},
					goerror.FieldError{Field: "email", Message: fieldrule.MsgEmail},
				)).Once()
			},
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, env envelope) {
				assert.False(t, env.Success)
				assert.Equal(t, "Validation failed", env.Message)
				assert.Equal(t, []goerror.FieldError{
					{Field: "AccountName", Message: fieldrule.MsgRequired},
					{Field: "email", Message: fieldrule.MsgEmail},
				}, env.Errors)
			},
		},
		{
			name: "created",
			body: `{"AccountName":"Acme","number_of_employees":50}`,
			setup: func(uc *mockUsecase) {
				uc.On("AccountCreate", mock.Anything, mock.MatchedBy(func(in usecase.AccountCreateInput) bool {
					n, ok := in.Record["number_of_employees"].(json.Number)
					return ok && n.String() == "50" && in.Record["AccountName"] == "Acme" && in.IdempotencyKey == "key-1"
				})).Return(&entity.Account{
					ID: 1844674407370955161,
					AccountData: entity.AccountData{
						AccountName:       "Acme",
						AccountType:       entity.AccountTypeProspect,
						NumberOfEmployees: &employees,
					},
					CreatedAt: now,
					UpdatedAt: now,
				}, nil).Once()
			},
			wantCode: http.StatusCreated,
			check: func(t *testing.T, env envelope) {
				assert.True(t, env.Success)
				assert.Equal(t, "Account created", env.Message)

				var data struct {
					Account map[string]any `json:"account"`
				}
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.Equal(t, "1844674407370955161", data.Account["id"])
				assert.Equal(t, "prospect", data.Account["account_type"])
				assert.InDelta(t, 50, data.Account["number_of_employees"], 0)
				assert.Nil(t, data.Account["state_id"])
			},
		},
		{
			name: "duplicate email",
			body: `{"AccountName":"Acme","email":"a@b.com"}`,
			setup: func(uc *mockUsecase) {
				uc.On("AccountCreate", mock.Anything, mock.Anything).
					Return(nil, goerror.NewBusiness("Account email already exists", goerror.CodeConflict)).Once()
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, h, token := newServer(t)
			if tt.setup != nil {
				tt.setup(uc)
			}

			code, env := do(t, h, http.MethodPost, "/api/v1/accounts", token, tt.body, router.HeaderIdempotencyKey, "key-1")
			assert.Equal(t, tt.wantCode, code)
			if tt.check != nil {
				tt.check(t, env)
			}
		})
	}
}

func TestHTTP_AccountValidate(t *testing.T) {
	t.Parallel()

	uc, h, token := newServer(t)
	uc.On("AccountValidate", mock.Anything, mock.Anything).Return(nil).Once()

	code, env := do(t, h, http.MethodPost, "/api/v1/accounts-validate", token, `{"AccountName":"Acme"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Record is valid", env.Message)
	assert.JSONEq(t, `{"valid":true}`, string(env.Data))
}

func TestHTTP_AccountList(t *testing.T) {
	t.Parallel()

	uc, h, token := newServer(t)
	uc.On("AccountList", mock.Anything, usecase.AccountListInput{
		Search:    "acme",
		StateID:   5,
		SortBy:    "name",
		SortOrder: "asc",
		Page:      2,
		Size:      20,
	}).Return(&usecase.AccountListOutput{
		Accounts: []entity.Account{{ID: 1}, {ID: 2}},
		Total:    22,
		Page:     2,
		Size:     20,
	}, nil).Once()

	code, env := do(t, h, http.MethodGet, "/api/v1/accounts?search=acme&state_id=5&sort_by=name&sort_order=asc&page=2&size=20", token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"total": float64(22), "size": float64(20), "page": float64(2)}, env.Meta)

	code, env = do(t, h, http.MethodGet, "/api/v1/accounts?size=ten", token, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid query size", env.Error)
}

func TestHTTP_AccountDetailAndDelete(t *testing.T) {
	t.Parallel()

	uc, h, token := newServer(t)
	uc.On("AccountDetail", mock.Anything, usecase.AccountDetailInput{ID: 9}).
		Return(nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)).Once()
	uc.On("AccountDelete", mock.Anything, usecase.AccountDeleteInput{ID: 9}).Return(nil).Once()

	code, env := do(t, h, http.MethodGet, "/api/v1/accounts/9", token, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Account not found", env.Message)

	code, _ = do(t, h, http.MethodGet, "/api/v1/accounts/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, h, http.MethodDelete, "/api/v1/accounts/9", token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Account deleted", env.Message)
}

func TestHTTP_AccountExport(t *testing.T) {
	t.Parallel()

	uc, h, token := newServer(t)
	expires := time.Date(2026, 3, 4, 10, 15, 0, 0, time.UTC)
	uc.On("AccountExport", mock.Anything, usecase.AccountExportInput{Industry: "Media"}).
		Return(&usecase.AccountExportOutput{Key: "exports/accounts/x.csv", URL: "https://files.test/x", Rows: 3, ExpiresAt: expires}, nil).Once()
	uc.On("AccountExport", mock.Anything, usecase.AccountExportInput{}).
		Return(&usecase.AccountExportOutput{Key: "exports/accounts/y.csv", URL: "https://files.test/y", ExpiresAt: expires}, nil).Once()

	code, env := do(t, h, http.MethodPost, "/api/v1/accounts-export", token, `{"industry":"Media"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"key":"exports/accounts/x.csv","url":"https://files.test/x","rows":3,"expires_at":"2026-03-04T10:15:00Z"}`, string(env.Data))

	code, _ = do(t, h, http.MethodPost, "/api/v1/accounts-export", token, "")
	assert.Equal(t, http.StatusOK, code)
}
