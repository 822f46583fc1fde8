// Package funds loads and queries the superannuation fund fee table.
package funds

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/finance"
)

var ErrFundNotFound = errors.New("fund not found")

// Table is an in-memory fee table keyed by fund name and age band.
// Rows with an age-based fee approach are kept; other approach types
// are dropped at load time.
type Table struct {
	rows []domain.FeeRow
}

// Load reads a fee table from a CSV file on disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fee table: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a fee table from CSV. Expected columns: FundName,
// ApproachType, AgeMin, AgeMax, InvestmentFee, AdminFee, MemberFee.
// InvestmentFee may carry a trailing %, MemberFee a leading $, and
// AdminFee is a JSON array of balance tiers.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading fee table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"FundName", "ApproachType", "AgeMin", "AgeMax", "InvestmentFee", "AdminFee", "MemberFee"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("fee table missing column %q", required)
		}
	}

	t := &Table{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading fee table line %d: %w", line, err)
		}

		if !strings.EqualFold(strings.TrimSpace(record[col["ApproachType"]]), "AGE") {
			continue
		}

		row, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("fee table line %d: %w", line, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func parseRow(record []string, col map[string]int) (domain.FeeRow, error) {
	var row domain.FeeRow
	row.FundName = strings.TrimSpace(record[col["FundName"]])
	if row.FundName == "" {
		return row, errors.New("empty fund name")
	}

	ageMin, err := strconv.Atoi(strings.TrimSpace(record[col["AgeMin"]]))
	if err != nil {
		return row, fmt.Errorf("parsing AgeMin: %w", err)
	}
	ageMax, err := strconv.Atoi(strings.TrimSpace(record[col["AgeMax"]]))
	if err != nil {
		return row, fmt.Errorf("parsing AgeMax: %w", err)
	}
	row.AgeMin, row.AgeMax = ageMin, ageMax

	invest := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(record[col["InvestmentFee"]]), "%"))
	row.InvestmentPct, err = strconv.ParseFloat(invest, 64)
	if err != nil {
		return row, fmt.Errorf("parsing InvestmentFee: %w", err)
	}

	if raw := strings.TrimSpace(record[col["AdminFee"]]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &row.AdminTiers); err != nil {
			return row, fmt.Errorf("parsing AdminFee tiers: %w", err)
		}
		sort.Slice(row.AdminTiers, func(i, j int) bool {
			return row.AdminTiers[i].MinBalance < row.AdminTiers[j].MinBalance
		})
	}

	member := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(record[col["MemberFee"]]), "$"))
	member = strings.ReplaceAll(member, ",", "")
	if member != "" {
		row.MemberFee, err = strconv.ParseFloat(member, 64)
		if err != nil {
			return row, fmt.Errorf("parsing MemberFee: %w", err)
		}
	}

	return row, nil
}

// Names returns the distinct fund names in table order.
func (t *Table) Names() []string {
	seen := make(map[string]bool, len(t.rows))
	var names []string
	for _, r := range t.rows {
		if !seen[r.FundName] {
			seen[r.FundName] = true
			names = append(names, r.FundName)
		}
	}
	return names
}

// Len reports the number of fee rows loaded.
func (t *Table) Len() int { return len(t.rows) }

// FeeRowFor returns the fee row for an exact fund name whose age band
// covers the given age.
func (t *Table) FeeRowFor(name string, age int) (domain.FeeRow, error) {
	for _, r := range t.rows {
		if r.FundName == name && r.AppliesTo(age) {
			return r, nil
		}
	}
	return domain.FeeRow{}, fmt.Errorf("%w: %s (age %d)", ErrFundNotFound, name, age)
}

// RowsFor returns every fee row applicable at the given age, one per
// fund.
func (t *Table) RowsFor(age int) []domain.FeeRow {
	var out []domain.FeeRow
	for _, r := range t.rows {
		if r.AppliesTo(age) {
			out = append(out, r)
		}
	}
	return out
}

// MatchName resolves a user-supplied fund name against the table
// without calling out to a model. It tries an exact match, then a
// case-insensitive one, then containment either way. Returns false
// when nothing matches.
func (t *Table) MatchName(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	names := t.Names()
	for _, n := range names {
		if n == input {
			return n, true
		}
	}
	lower := strings.ToLower(input)
	for _, n := range names {
		if strings.ToLower(n) == lower {
			return n, true
		}
	}
	for _, n := range names {
		ln := strings.ToLower(n)
		if strings.Contains(ln, lower) || strings.Contains(lower, ln) {
			return n, true
		}
	}
	return "", false
}

// Cheapest ranks every fund applicable at the given age by total
// annual fee on the given balance and returns the cheapest row with
// its breakdown, plus the number of funds compared.
func (t *Table) Cheapest(age int, balance float64) (domain.FeeRow, finance.FeeBreakdown, int, error) {
	rows := t.RowsFor(age)
	if len(rows) == 0 {
		return domain.FeeRow{}, finance.FeeBreakdown{}, 0, fmt.Errorf("%w: no funds cover age %d", ErrFundNotFound, age)
	}

	best := rows[0]
	bestBreakdown := finance.ComputeFeeBreakdown(best, balance)
	for _, r := range rows[1:] {
		b := finance.ComputeFeeBreakdown(r, balance)
		if b.Total < bestBreakdown.Total {
			best, bestBreakdown = r, b
		}
	}
	return best, bestBreakdown, len(rows), nil
}
