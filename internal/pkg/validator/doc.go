// Package validator validates request structs with go-playground/validator
// and reports failures as ordered field violations.
//
// Besides the stock tags it registers:
//   - crm_email: the CRM email shape check
//   - crm_phone: the CRM phone check (allowed characters, 7 to 16 digits)
//   - oneof_ci: like oneof but case-insensitive
package validator
