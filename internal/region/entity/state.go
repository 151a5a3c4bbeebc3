package entity

// State is a state or province an account can be located in.
type State struct {
	ID          int64
	Code        string
	Name        string
	CountryCode string
}
