package csvstore

import (
	"fmt"
	"strconv"
	"strings"

	"insurtech-portal/internal/core/domain"
)

// Canonical column schema. Files are always written back in this form.
var canonicalHeader = []string{
	"id", "company", "product", "currency", "gender",
	"min_age", "max_age", "payment_term", "coverage_term",
	"coverage_amount", "premium",
}

// headerAliases maps observed header variants (localized and legacy names)
// onto canonical column names. Lookup is on the trimmed header cell.
var headerAliases = map[string]string{
	"編號":   "id",
	"公司":   "company",
	"商品名稱": "product",
	"幣別":   "currency",
	"性別":   "gender",
	"最低年齡": "min_age",
	"最高年齡": "max_age",
	"繳費年期": "payment_term",
	"保障年期": "coverage_term",
	"保額":   "coverage_amount",
	"保費":   "premium",
}

// genderAliases maps localized gender cell values onto the enum
var genderAliases = map[string]domain.Gender{
	"男":  domain.GenderMale,
	"女":  domain.GenderFemale,
	"不限": domain.GenderUnrestricted,
}

// columnMap resolves a header row to canonical-column indexes. Unknown columns
// are ignored; the optional id and coverage_term columns may be absent and are
// defaulted during migration (fresh sequential ids, coverage term 0).
func columnMap(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		cols[strings.ToLower(name)] = i
	}

	for _, required := range canonicalHeader {
		if required == "id" || required == "coverage_term" {
			continue
		}
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrPersistence, required)
		}
	}
	return cols, nil
}

// parseRecord converts one data row into a Policy using the resolved columns
func parseRecord(row []string, cols map[string]int, line int) (domain.Policy, error) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var p domain.Policy
	var err error

	if raw := cell("id"); raw != "" {
		id, convErr := strconv.ParseUint(raw, 10, 32)
		if convErr != nil {
			return p, rowError(line, "id", convErr)
		}
		p.ID = uint(id)
	}

	p.Company = cell("company")
	p.Product = cell("product")
	p.Currency = domain.Currency(strings.ToUpper(cell("currency")))

	gender := cell("gender")
	if alias, ok := genderAliases[gender]; ok {
		p.Gender = alias
	} else {
		p.Gender = domain.Gender(strings.ToUpper(gender))
	}

	if p.MinAge, err = strconv.Atoi(cell("min_age")); err != nil {
		return p, rowError(line, "min_age", err)
	}
	if p.MaxAge, err = strconv.Atoi(cell("max_age")); err != nil {
		return p, rowError(line, "max_age", err)
	}

	p.PaymentTerm = cell("payment_term")

	if raw := cell("coverage_term"); raw != "" {
		if p.CoverageTerm, err = strconv.Atoi(raw); err != nil {
			return p, rowError(line, "coverage_term", err)
		}
	}

	if p.CoverageAmount, err = strconv.ParseFloat(cell("coverage_amount"), 64); err != nil {
		return p, rowError(line, "coverage_amount", err)
	}
	if p.Premium, err = strconv.ParseFloat(cell("premium"), 64); err != nil {
		return p, rowError(line, "premium", err)
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("line %d: %w", line, err)
	}
	return p, nil
}

// formatRecord renders a Policy as a canonical-schema row
func formatRecord(p domain.Policy) []string {
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Company,
		p.Product,
		string(p.Currency),
		string(p.Gender),
		strconv.Itoa(p.MinAge),
		strconv.Itoa(p.MaxAge),
		p.PaymentTerm,
		strconv.Itoa(p.CoverageTerm),
		strconv.FormatFloat(p.CoverageAmount, 'f', -1, 64),
		strconv.FormatFloat(p.Premium, 'f', -1, 64),
	}
}

func rowError(line int, column string, err error) error {
	return fmt.Errorf("%w: line %d column %s: %v", domain.ErrPersistence, line, column, err)
}
