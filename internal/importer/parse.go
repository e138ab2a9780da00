package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// numericJunk covers the decoration humans leave on spreadsheet numbers:
// currency symbols, thousands separators, percent signs, whitespace.
var numericJunk = strings.NewReplacer(
	",", "",
	"€", "",
	"$", "",
	"£", "",
	"%", "",
	" ", "",
	" ", "",
)

func isEmptyCell(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || s == "-" || strings.EqualFold(s, "n/a") || strings.EqualFold(s, "na")
}

// ParseDecimal strips currency symbols, thousands separators and whitespace
// before parsing. Empty-ish cells ("", "-", "N/A") return nil, not zero.
// A non-numeric remainder also returns nil rather than an error.
func ParseDecimal(raw string) *float64 {
	if isEmptyCell(raw) {
		return nil
	}
	cleaned := numericJunk.Replace(strings.TrimSpace(raw))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInteger is ParseDecimal with truncation to a whole number, so "2,024"
// and "2024.0" both come out as 2024.
func ParseInteger(raw string) *int64 {
	f := ParseDecimal(raw)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

func ParseBool(raw string) *bool {
	if isEmptyCell(raw) {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1":
		b := true
		return &b
	case "n", "no", "false", "0":
		b := false
		return &b
	}
	return nil
}

var dateLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"02-Jan-06",
	"02-Jan-2006",
	"2006-01-02",
}

// ParseDate handles the D-MMM-YY spreadsheet style (e.g. "1-Feb-25"). An
// empty cell is nil; an unparseable non-empty cell is an error so the row,
// not the file, can be failed.
func ParseDate(raw string) (*time.Time, error) {
	if isEmptyCell(raw) {
		return nil, nil
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}
