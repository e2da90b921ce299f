package services

import (
	"fmt"
	"sort"
	"strings"

	"insurtech-portal/internal/core/domain"
)

// Recommend filters records against the criteria and returns the matches
// ordered by premium ascending, ties kept in input order. The input slice is
// never mutated; the result is a fresh sequence and may be empty.
//
// Criteria arrive through closed-option selectors, so an out-of-enum value is
// a caller contract violation: it fails fast with domain.ErrInvalidCriteria
// instead of silently matching nothing.
func Recommend(records []domain.Policy, criteria domain.Criteria) ([]domain.Policy, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	matches := make([]domain.Policy, 0, len(records))
	for _, record := range records {
		if matchesCriteria(record, criteria) {
			matches = append(matches, record)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Premium < matches[j].Premium
	})

	return matches, nil
}

// validateCriteria rejects criteria values outside the enumerated sets
func validateCriteria(c domain.Criteria) error {
	if c.Age < 0 {
		return fmt.Errorf("%w: age %d", domain.ErrInvalidCriteria, c.Age)
	}
	if c.Gender != domain.GenderMale && c.Gender != domain.GenderFemale {
		return fmt.Errorf("%w: gender %q", domain.ErrInvalidCriteria, c.Gender)
	}
	if !c.Currency.Valid() {
		return fmt.Errorf("%w: currency %q", domain.ErrInvalidCriteria, c.Currency)
	}
	if c.CoverageTerm != nil && *c.CoverageTerm < 0 {
		return fmt.Errorf("%w: coverage_term %d", domain.ErrInvalidCriteria, *c.CoverageTerm)
	}
	switch c.PaymentTermMode {
	case "", domain.TermMatchExact, domain.TermMatchSlashList:
	default:
		return fmt.Errorf("%w: payment_term_mode %q", domain.ErrInvalidCriteria, c.PaymentTermMode)
	}
	return nil
}

// matchesCriteria combines every predicate with logical AND
func matchesCriteria(p domain.Policy, c domain.Criteria) bool {
	if c.Age < p.MinAge || c.Age > p.MaxAge {
		return false
	}
	if p.Gender != domain.GenderUnrestricted && p.Gender != c.Gender {
		return false
	}
	if p.Currency != c.Currency {
		return false
	}
	if c.PaymentTerm != "" && !matchesPaymentTerm(p.PaymentTerm, c.PaymentTerm, c.PaymentTermMode) {
		return false
	}
	if c.CoverageTerm != nil && p.CoverageTerm != *c.CoverageTerm {
		return false
	}
	return true
}

// matchesPaymentTerm applies the configured payment-term matching mode
func matchesPaymentTerm(recordTerm, wanted string, mode domain.TermMatchMode) bool {
	if mode == domain.TermMatchSlashList {
		for _, term := range strings.Split(recordTerm, "/") {
			if strings.TrimSpace(term) == wanted {
				return true
			}
		}
		return false
	}
	return recordTerm == wanted
}
