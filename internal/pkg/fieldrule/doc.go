// Package fieldrule is a small declarative validation engine for record-shaped
// input (field name to value).
//
// A RuleSet is plain data: an ordered list of rules, each naming a field and the
// check to run against it. The same RuleSet can be serialized and shipped to
// clients so they run identical checks, while the server copy stays the one that
// is enforced. Validation is pure and safe for concurrent use.
package fieldrule
