package domain

import (
	"fmt"
	"time"
)

// Role represents the two provisioned roles in the portal
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the provisioned roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Credential represents a statically configured login credential.
// Exactly one credential exists per role, loaded at startup and never mutated.
type Credential struct {
	Role        Role
	Account     string
	Password    string
	DisplayName string
	WindowStart time.Time // inclusive, date granularity
	WindowEnd   time.Time // inclusive, date granularity
}

// Currency is the set of currencies a policy can be denominated in
type Currency string

const (
	CurrencyTWD Currency = "TWD"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether the currency is in the enumerated set
func (c Currency) Valid() bool {
	return c == CurrencyTWD || c == CurrencyUSD
}

// Gender is the gender eligibility of a policy
type Gender string

const (
	GenderMale         Gender = "MALE"
	GenderFemale       Gender = "FEMALE"
	GenderUnrestricted Gender = "UNRESTRICTED"
)

// Valid reports whether the gender is in the enumerated set
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnrestricted
}

// Policy represents one insurance product row with eligibility bounds and pricing
type Policy struct {
	ID             uint     `json:"id"`
	Company        string   `json:"company"`
	Product        string   `json:"product"`
	Currency       Currency `json:"currency"`
	Gender         Gender   `json:"gender"`
	MinAge         int      `json:"min_age"`
	MaxAge         int      `json:"max_age"`
	PaymentTerm    string   `json:"payment_term"`
	CoverageTerm   int      `json:"coverage_term"`
	CoverageAmount float64  `json:"coverage_amount"`
	Premium        float64  `json:"premium"`
}

// Validate checks the record invariants
func (p *Policy) Validate() error {
	if !p.Currency.Valid() {
		return fmt.Errorf("%w: currency %q", ErrInvalidRecord, p.Currency)
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: gender %q", ErrInvalidRecord, p.Gender)
	}
	if p.MinAge < 0 {
		return fmt.Errorf("%w: min_age %d", ErrInvalidRecord, p.MinAge)
	}
	if p.MaxAge < p.MinAge {
		return fmt.Errorf("%w: max_age %d below min_age %d", ErrInvalidRecord, p.MaxAge, p.MinAge)
	}
	if p.CoverageAmount < 0 {
		return fmt.Errorf("%w: coverage_amount %v", ErrInvalidRecord, p.CoverageAmount)
	}
	if p.Premium < 0 {
		return fmt.Errorf("%w: premium %v", ErrInvalidRecord, p.Premium)
	}
	return nil
}

// TermMatchMode selects how a payment-term criterion is matched against a record.
// Both behaviors exist in the field; the mode is a deliberate configuration choice.
type TermMatchMode string

const (
	// TermMatchExact compares the criterion against the record term as a plain string
	TermMatchExact TermMatchMode = "exact"
	// TermMatchSlashList splits the record term on "/" and tests membership,
	// so a record term of "6/10/20" accepts criteria "6", "10" and "20"
	TermMatchSlashList TermMatchMode = "slash-list"
)

// Criteria is the set of user-supplied filter values for a recommendation.
// All recognized predicates are combined with logical AND.
type Criteria struct {
	Age      int      `json:"age"`
	Gender   Gender   `json:"gender"` // MALE or FEMALE; records with UNRESTRICTED always pass
	Currency Currency `json:"currency"`

	// PaymentTerm is optional; empty string disables the predicate
	PaymentTerm string `json:"payment_term,omitempty"`
	// CoverageTerm is optional; nil disables the predicate
	CoverageTerm *int `json:"coverage_term,omitempty"`

	// PaymentTermMode defaults to TermMatchExact when empty
	PaymentTermMode TermMatchMode `json:"payment_term_mode,omitempty"`
}
