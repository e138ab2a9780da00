package importer

import (
	"fmt"
	"strings"

	"github.com/yungbote/mediaplan-backend/internal/types"
)

// headerLookup is the normalized synonym index, built once at package init.
var headerLookup = buildHeaderLookup()

func buildHeaderLookup() map[string]Field {
	lookup := make(map[string]Field)
	for field, spellings := range fieldSynonyms {
		for _, s := range spellings {
			lookup[normalizeHeader(s)] = field
		}
		lookup[normalizeHeader(string(field))] = field
	}
	return lookup
}

// normalizeHeader folds case, punctuation and spacing so "Business Unit",
// "BU" and "BUSINESSUNIT" can share synonym entries.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchHeader reports which canonical field a raw spreadsheet header maps
// to, if any. Unrecognized headers are simply not mapped.
func MatchHeader(header string) (Field, bool) {
	f, ok := headerLookup[normalizeHeader(header)]
	return f, ok
}

// MapRow folds one raw record (header -> cell) onto the canonical field set
// and coerces each cell to its field's kind. Unmapped headers are ignored;
// unmapped fields stay absent. Coercion problems that must fail the row
// (bad dates) come back as critical issues; unparseable numerics become
// absent values per the tolerance rules in parse.go.
func MapRow(rowIndex int, record map[string]string) (MappedRow, []types.ValidationIssue) {
	row := make(MappedRow)
	var issues []types.ValidationIssue

	for header, raw := range record {
		field, ok := MatchHeader(header)
		if !ok {
			continue
		}
		kind := fieldKinds[field]
		value := Value{Kind: kind, Raw: raw}

		switch kind {
		case KindText:
			if isEmptyCell(raw) {
				continue
			}
			value.Text = strings.TrimSpace(raw)
		case KindInteger:
			value.Int = ParseInteger(raw)
			if value.Int == nil {
				continue
			}
		case KindDecimal:
			value.Dec = ParseDecimal(raw)
			if value.Dec == nil {
				continue
			}
		case KindBoolean:
			value.Bool = ParseBool(raw)
			if value.Bool == nil {
				continue
			}
		case KindDate:
			t, err := ParseDate(raw)
			if err != nil {
				issues = append(issues, types.ValidationIssue{
					RowIndex:      rowIndex,
					FieldName:     string(field),
					Severity:      types.SeverityCritical,
					Message:       fmt.Sprintf("invalid date: %v", err),
					ObservedValue: raw,
				})
				continue
			}
			if t == nil {
				continue
			}
			value.Date = t
		}

		row[field] = value
	}

	return row, issues
}
