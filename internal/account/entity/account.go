package entity

import (
	"strconv"
	"strings"
	"time"
)

type AccountType string

const (
	AccountTypeProspect AccountType = "prospect"
	AccountTypeCustomer AccountType = "customer"
	AccountTypePartner  AccountType = "partner"
	AccountTypeVendor   AccountType = "vendor"
)

// AccountTypes lists the accepted types in display order.
var AccountTypes = []AccountType{AccountTypeProspect, AccountTypeCustomer, AccountTypePartner, AccountTypeVendor}

// ParseAccountType matches s case-insensitively. Blank input is a prospect.
func ParseAccountType(s string) (AccountType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AccountTypeProspect, true
	}
	for _, t := range AccountTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// AccountData is the client editable part of an account.
type AccountData struct {
	AccountName           string
	Email                 string
	PrimaryPhone          string
	Website               string
	Industry              string
	AccountType           AccountType
	City                  string
	StateID               *int64
	Country               string
	Description           string
	NumberOfEmployees     *int64
	AnnualRevenue         *int64
	NumberOfVenues        *int64
	NumberOfReleases      *int64
	NumberOfEventsPerYear *int64
}

type Account struct {
	ID int64
	AccountData
	CreatedBy int64
	UpdatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AccountListFilter struct {
	Search      string
	Industry    string
	StateID     int64
	AccountType AccountType
	SortBy      string // column name, see SortColumn
	SortOrder   string // asc or desc
	Size        int32
	Offset      int32
}

// SortColumn maps a public sort key to its column. Unknown keys sort by
// creation time.
func SortColumn(sortBy string) string {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "name":
		return "account_name"
	case "annual_revenue":
		return "annual_revenue"
	case "number_of_employees":
		return "number_of_employees"
	default:
		return "created_at"
	}
}

// SortDirection returns ASC or DESC, defaulting to DESC.
func SortDirection(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		return "ASC"
	}
	return "DESC"
}

type Bucket struct {
	Key   string
	Count int64
}

type AccountSummary struct {
	TotalAccounts  int64
	TotalRevenue   int64
	TotalEmployees int64
	ByIndustry     []Bucket
	ByAccountType  []Bucket
	ByState        []Bucket
}

// CSVHeader is the first row of an account export.
var CSVHeader = []string{
	"id", "AccountName", "email", "PrimaryPhone", "website", "industry", "account_type",
	"city", "state_id", "country", "number_of_employees", "annual_revenue",
	"number_of_venues", "number_of_releases", "number_of_events_per_year", "created_at",
}

// CSVRow renders a in CSVHeader order. Absent numbers are empty cells.
func (a Account) CSVRow() []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.AccountName,
		a.Email,
		a.PrimaryPhone,
		a.Website,
		a.Industry,
		string(a.AccountType),
		a.City,
		optInt(a.StateID),
		a.Country,
		optInt(a.NumberOfEmployees),
		optInt(a.AnnualRevenue),
		optInt(a.NumberOfVenues),
		optInt(a.NumberOfReleases),
		optInt(a.NumberOfEventsPerYear),
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
