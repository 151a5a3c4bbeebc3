package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRules_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  fieldrule.Record
		want []fieldrule.FieldError
	}{
		{
			name: "every kind of violation in rule order",
			rec: fieldrule.Record{
				"AccountName":         "",
				"email":               "bad",
				"PrimaryPhone":        "12",
				"number_of_employees": json.Number("-1"),
			},
			want: []fieldrule.FieldError{
				{Field: "AccountName", Message: "This field is required."},
				{Field: "email", Message: "Please enter a valid email address."},
				{Field: "PrimaryPhone", Message: "Phone number is too short"},
				{Field: "number_of_employees", Message: "Value must be ≥ 0"},
			},
		},
		{
			name: "valid record",
			rec: fieldrule.Record{
				"AccountName":               "Acme Events",
				"email":                     "Ops@Acme.io",
				"PrimaryPhone":              "+1 (555) 010-2000",
				"number_of_employees":       json.Number("120"),
				"annual_revenue":            json.Number("2500000"),
				"number_of_venues":          "3",
				"number_of_releases":        0,
				"number_of_events_per_year": nil,
			},
			want: []fieldrule.FieldError{},
		},
		{
			name: "fractional count",
			rec: fieldrule.Record{
				"AccountName":        "Acme",
				"number_of_releases": 3.5,
			},
			want: []fieldrule.FieldError{
				{Field: "number_of_releases", Message: "Please enter a whole number"},
			},
		},
		{
			name: "revenue is integer only",
			rec: fieldrule.Record{
				"AccountName":    "Acme",
				"annual_revenue": "1000.50",
			},
			want: []fieldrule.FieldError{
				{Field: "annual_revenue", Message: "Please enter a whole number"},
			},
		},
		{
			name: "absent fields are not checked",
			rec:  fieldrule.Record{"AccountName": "Acme"},
			want: []fieldrule.FieldError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := entity.AccountRules.Validate(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountRules_UnexpectedValue(t *testing.T) {
	t.Parallel()

	_, err := entity.AccountRules.Validate(fieldrule.Record{"AccountName": "Acme", "email": true})
	require.ErrorIs(t, err, fieldrule.ErrUnsupportedValue)
}

func TestAccountRules_Published(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(entity.AccountRules)
	require.NoError(t, err)

	var back fieldrule.RuleSet
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, entity.AccountRules, back)
	assert.Equal(t, []string{
		"AccountName", "email", "PrimaryPhone", "number_of_employees", "annual_revenue",
		"number_of_venues", "number_of_releases", "number_of_events_per_year",
	}, back.Fields())
}

func TestAccountDataFromRecord(t *testing.T) {
	t.Parallel()

	t.Run("maps and normalizes", func(t *testing.T) {
		t.Parallel()

		data, errs, err := entity.AccountDataFromRecord(fieldrule.Record{
			"AccountName":         "  Acme  ",
			"email":               " Ops@Acme.IO ",
			"PrimaryPhone":        "+1 555 010 2000",
			"account_type":        "Customer",
			"state_id":            json.Number("5"),
			"number_of_employees": json.Number("120"),
			"annual_revenue":      "1e3",
			"number_of_venues":    "",
		})
		require.NoError(t, err)
		assert.Empty(t, errs)
		assert.Equal(t, "Acme", data.AccountName)
		assert.Equal(t, "ops@acme.io", data.Email)
		assert.Equal(t, entity.AccountTypeCustomer, data.AccountType)
		require.NotNil(t, data.StateID)
		assert.Equal(t, int64(5), *data.StateID)
		require.NotNil(t, data.NumberOfEmployees)
		assert.Equal(t, int64(120), *data.NumberOfEmployees)
		require.NotNil(t, data.AnnualRevenue)
		assert.Equal(t, int64(1000), *data.AnnualRevenue)
		assert.Nil(t, data.NumberOfVenues)
	})

	t.Run("defaults to prospect", func(t *testing.T) {
		t.Parallel()

		data, errs, err := entity.AccountDataFromRecord(fieldrule.Record{"AccountName": "Acme"})
		require.NoError(t, err)
		assert.Empty(t, errs)
		assert.Equal(t, entity.AccountTypeProspect, data.AccountType)
		assert.Nil(t, data.StateID)
	})

	t.Run("reports what the rules cannot see", func(t *testing.T) {
		t.Parallel()

		_, errs, err := entity.AccountDataFromRecord(fieldrule.Record{
			"AccountName":         "Acme",
			"account_type":        "reseller",
			"state_id":            "abc",
			"number_of_employees": "1e30",
		})
		require.NoError(t, err)
		assert.Equal(t, []fieldrule.FieldError{
			{Field: "account_type", Message: entity.MsgUnknownAccountType},
			{Field: "state_id", Message: entity.MsgUnknownState},
			{Field: "number_of_employees", Message: entity.MsgValueTooLarge},
		}, errs)
	})

	t.Run("unsupported value", func(t *testing.T) {
		t.Parallel()

		_, _, err := entity.AccountDataFromRecord(fieldrule.Record{"AccountName": "Acme", "city": []any{"x"}})
		require.ErrorIs(t, err, fieldrule.ErrUnsupportedValue)
	})
}

func TestSortAndCSV(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "account_name", entity.SortColumn("Name"))
	assert.Equal(t, "created_at", entity.SortColumn("id; drop table"))
	assert.Equal(t, "ASC", entity.SortDirection("asc"))
	assert.Equal(t, "DESC", entity.SortDirection(""))

	emp := int64(10)
	row := entity.Account{ID: 7, AccountData: entity.AccountData{
		AccountName:       "Acme",
		AccountType:       entity.AccountTypeVendor,
		NumberOfEmployees: &emp,
	}}.CSVRow()
	require.Len(t, row, len(entity.CSVHeader))
	assert.Equal(t, "7", row[0])
	assert.Equal(t, "vendor", row[6])
	assert.Equal(t, "10", row[10])
	assert.Empty(t, row[11])
}
