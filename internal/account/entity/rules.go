package entity

import (
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
)

// Record keys of an account.
const (
	FieldAccountName           = "AccountName"
	FieldEmail                 = "email"
	FieldPrimaryPhone          = "PrimaryPhone"
	FieldWebsite               = "website"
	FieldIndustry              = "industry"
	FieldAccountType           = "account_type"
	FieldCity                  = "city"
	FieldStateID               = "state_id"
	FieldCountry               = "country"
	FieldDescription           = "description"
	FieldNumberOfEmployees     = "number_of_employees"
	FieldAnnualRevenue         = "annual_revenue"
	FieldNumberOfVenues        = "number_of_venues"
	FieldNumberOfReleases      = "number_of_releases"
	FieldNumberOfEventsPerYear = "number_of_events_per_year"
)

const (
	MsgUnknownState       = "Unknown state"
	MsgUnknownAccountType = "Unknown account type"
	MsgValueTooLarge      = "Value is too large"
)

// AccountRules is the server side rule set for an account record. It is
// published to clients unchanged so both sides report the same errors.
var AccountRules = fieldrule.RuleSet{
	fieldrule.RequiredField(FieldAccountName),
	fieldrule.EmailField(FieldEmail),
	fieldrule.PhoneField(FieldPrimaryPhone),
	fieldrule.NumberField(FieldNumberOfEmployees, fieldrule.WithMin(0)),
	fieldrule.NumberField(FieldAnnualRevenue, fieldrule.WithMin(0)),
	fieldrule.NumberField(FieldNumberOfVenues, fieldrule.WithMin(0)),
	fieldrule.NumberField(FieldNumberOfReleases, fieldrule.WithMin(0)),
	fieldrule.NumberField(FieldNumberOfEventsPerYear, fieldrule.WithMin(0)),
}

// AccountDataFromRecord maps a record that already passed AccountRules.
//
// Violations the rule set cannot see (an unknown account type, a malformed
// state id, integers beyond int64) come back as field errors. The error is
// set only when a value has an unsupported type.
func AccountDataFromRecord(rec fieldrule.Record) (AccountData, []fieldrule.FieldError, error) {
	var (
		data AccountData
		errs []fieldrule.FieldError
	)

	text := func(field string) (string, error) {
		s, err := fieldrule.Text(rec[field])
		return strings.TrimSpace(s), err
	}

	strs := []struct {
		field string
		dst   *string
	}{
		{FieldAccountName, &data.AccountName},
		{FieldEmail, &data.Email},
		{FieldPrimaryPhone, &data.PrimaryPhone},
		{FieldWebsite, &data.Website},
		{FieldIndustry, &data.Industry},
		{FieldCity, &data.City},
		{FieldCountry, &data.Country},
		{FieldDescription, &data.Description},
	}
	for _, s := range strs {
		v, err := text(s.field)
		if err != nil {
			return AccountData{}, nil, err
		}
		*s.dst = v
	}
	data.Email = strings.ToLower(data.Email)

	rawType, err := text(FieldAccountType)
	if err != nil {
		return AccountData{}, nil, err
	}
	accType, ok := ParseAccountType(rawType)
	if !ok {
		errs = append(errs, fieldrule.FieldError{Field: FieldAccountType, Message: MsgUnknownAccountType})
	}
	data.AccountType = accType

	rawState, err := text(FieldStateID)
	if err != nil {
		return AccountData{}, nil, err
	}
	if rawState != "" {
		id, perr := strconv.ParseInt(rawState, 10, 64)
		if perr != nil || id <= 0 {
			errs = append(errs, fieldrule.FieldError{Field: FieldStateID, Message: MsgUnknownState})
		} else {
			data.StateID = &id
		}
	}

	nums := []struct {
		field string
		dst   **int64
	}{
		{FieldNumberOfEmployees, &data.NumberOfEmployees},
		{FieldAnnualRevenue, &data.AnnualRevenue},
		{FieldNumberOfVenues, &data.NumberOfVenues},
		{FieldNumberOfReleases, &data.NumberOfReleases},
		{FieldNumberOfEventsPerYear, &data.NumberOfEventsPerYear},
	}
	for _, n := range nums {
		raw, err := text(n.field)
		if err != nil {
			return AccountData{}, nil, err
		}
		if raw == "" {
			continue
		}

		if v, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			*n.dst = &v
			continue
		}

		// exponent or fraction-free decimal forms such as 1e3 or 12.0
		f, perr := strconv.ParseFloat(raw, 64)
		switch {
		case perr != nil:
			errs = append(errs, fieldrule.FieldError{Field: n.field, Message: fieldrule.MsgNumber})
		case f >= math.MaxInt64:
			errs = append(errs, fieldrule.FieldError{Field: n.field, Message: MsgValueTooLarge})
		default:
			v := int64(f)
			*n.dst = &v
		}
	}

	return data, errs, nil
}
