package importer

import (
	"fmt"
	"strings"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

const (
	minValidAge = 0
	maxValidAge = 100

	// Budgets past this are almost always a units mistake (someone pasted
	// cents, or a grand total into a row).
	unusualBudgetThreshold = 50_000_000

	// Tolerance when cross-checking total vs quarterly budgets.
	budgetSumTolerance = 0.01
)

var validGenders = map[string]struct{}{
	"F":  {},
	"M":  {},
	"BG": {},
}

// Engine runs the ordered field and row validators for one import profile.
// It is a pure computation over mapped rows; it never touches the store.
type Engine struct {
	profile Profile
	log     *logger.Logger
}

func NewEngine(profile Profile, baseLog *logger.Logger) *Engine {
	return &Engine{profile: profile, log: baseLog.With("component", "ValidationEngine")}
}

// Validate applies every rule to every row, in file order, and returns the
// issue list plus severity counts. Duplicate detection flags the second and
// later occurrences of a composite key, never the first.
func (e *Engine) Validate(rows []MappedRow) ([]types.ValidationIssue, types.ValidationSummary) {
	var issues []types.ValidationIssue

	seenKeys := make(map[string]int)
	for i, row := range rows {
		issues = append(issues, e.validateRequired(i, row)...)
		issues = append(issues, e.validateDemographics(i, row)...)
		issues = append(issues, e.validateMetrics(i, row)...)
		issues = append(issues, e.validateDates(i, row)...)
		issues = append(issues, e.validateBudgets(i, row)...)

		if key, ok := e.duplicateKey(row); ok {
			if firstRow, dup := seenKeys[key]; dup {
				issues = append(issues, types.ValidationIssue{
					RowIndex:      i,
					FieldName:     e.duplicateKeyName(),
					Severity:      types.SeverityCritical,
					Message:       fmt.Sprintf("duplicate of row %d for key %s (%s)", firstRow, e.duplicateKeyName(), key),
					ObservedValue: key,
				})
			} else {
				seenKeys[key] = i
			}
		}
	}

	return issues, Summarize(issues)
}

// Summarize aggregates issue counts by severity plus the number of distinct
// affected rows.
func Summarize(issues []types.ValidationIssue) types.ValidationSummary {
	var summary types.ValidationSummary
	rows := make(map[int]struct{})
	for _, issue := range issues {
		switch issue.Severity {
		case types.SeverityCritical:
			summary.Critical++
		case types.SeverityWarning:
			summary.Warning++
		case types.SeveritySuggestion:
			summary.Suggestion++
		}
		rows[issue.RowIndex] = struct{}{}
	}
	summary.AffectedRows = len(rows)
	return summary
}

func (e *Engine) validateRequired(rowIndex int, row MappedRow) []types.ValidationIssue {
	var issues []types.ValidationIssue
	for _, field := range e.profile.Required {
		if _, ok := row[field]; !ok {
			issues = append(issues, types.ValidationIssue{
				RowIndex:  rowIndex,
				FieldName: string(field),
				Severity:  types.SeverityCritical,
				Message:   "required field is missing",
			})
		}
	}
	return issues
}

func (e *Engine) validateDemographics(rowIndex int, row MappedRow) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if gender := row.Text(FieldGender); gender != "" {
		if _, ok := validGenders[strings.ToUpper(gender)]; !ok {
			issues = append(issues, critical(rowIndex, FieldGender, "gender must be one of F, M, BG", gender))
		}
	}

	minAge := row.Int(FieldMinAge)
	maxAge := row.Int(FieldMaxAge)
	if minAge != nil && (*minAge < minValidAge || *minAge > maxValidAge) {
		issues = append(issues, critical(rowIndex, FieldMinAge, fmt.Sprintf("age must be between %d and %d", minValidAge, maxValidAge), row.Text(FieldMinAge)))
	}
	if maxAge != nil && (*maxAge < minValidAge || *maxAge > maxValidAge) {
		issues = append(issues, critical(rowIndex, FieldMaxAge, fmt.Sprintf("age must be between %d and %d", minValidAge, maxValidAge), row.Text(FieldMaxAge)))
	}
	if minAge != nil && maxAge != nil && *minAge >= *maxAge {
		issues = append(issues, critical(rowIndex, FieldMinAge, fmt.Sprintf("min age %d must be below max age %d", *minAge, *maxAge), ""))
	}

	return issues
}

func (e *Engine) validateMetrics(rowIndex int, row MappedRow) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if sat := row.Dec(FieldSaturation); sat != nil && (*sat <= 0 || *sat > 1) {
		issues = append(issues, critical(rowIndex, FieldSaturation, "saturation point must be in (0, 1]", fmt.Sprintf("%v", *sat)))
	}

	for _, field := range []Field{FieldReach1Plus, FieldReach2Plus, FieldReach3Plus} {
		if reach := row.Dec(field); reach != nil && (*reach < 0 || *reach > 100) {
			issues = append(issues, critical(rowIndex, field, "reach percentage must be between 0 and 100", fmt.Sprintf("%v", *reach)))
		}
	}

	r1 := row.Dec(FieldReach1Plus)
	r3 := row.Dec(FieldReach3Plus)
	if r1 != nil && r3 != nil && *r3 > *r1 {
		issues = append(issues, types.ValidationIssue{
			RowIndex:      rowIndex,
			FieldName:     string(FieldReach3Plus),
			Severity:      types.SeverityWarning,
			Message:       "reach 3+ exceeds reach 1+, frequency curve looks inverted",
			ObservedValue: fmt.Sprintf("%v > %v", *r3, *r1),
		})
	}

	return issues
}

func (e *Engine) validateDates(rowIndex int, row MappedRow) []types.ValidationIssue {
	var issues []types.ValidationIssue

	start := row.Date(FieldStartDate)
	end := row.Date(FieldEndDate)
	if start != nil && end != nil && end.Before(*start) {
		issues = append(issues, critical(rowIndex, FieldEndDate,
			fmt.Sprintf("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02")), ""))
	}

	if year := row.Int(FieldYear); year != nil && (*year < 2000 || *year > 2100) {
		issues = append(issues, critical(rowIndex, FieldYear, "year is out of range", row.Text(FieldYear)))
	}

	return issues
}

func (e *Engine) validateBudgets(rowIndex int, row MappedRow) []types.ValidationIssue {
	var issues []types.ValidationIssue

	budgetFields := []Field{FieldTotalBudget, FieldQ1Budget, FieldQ2Budget, FieldQ3Budget, FieldQ4Budget}
	for _, field := range budgetFields {
		if b := row.Dec(field); b != nil && *b < 0 {
			issues = append(issues, critical(rowIndex, field, "budget cannot be negative", fmt.Sprintf("%v", *b)))
		}
	}

	total := row.Dec(FieldTotalBudget)
	if total != nil && *total > unusualBudgetThreshold {
		issues = append(issues, types.ValidationIssue{
			RowIndex:      rowIndex,
			FieldName:     string(FieldTotalBudget),
			Severity:      types.SeveritySuggestion,
			Message:       fmt.Sprintf("uncommon value, typical total budgets are below %d", unusualBudgetThreshold),
			ObservedValue: fmt.Sprintf("%v", *total),
		})
	}

	q1, q2, q3, q4 := row.Dec(FieldQ1Budget), row.Dec(FieldQ2Budget), row.Dec(FieldQ3Budget), row.Dec(FieldQ4Budget)
	if total != nil && q1 != nil && q2 != nil && q3 != nil && q4 != nil {
		sum := *q1 + *q2 + *q3 + *q4
		if diff := sum - *total; diff > budgetSumTolerance || diff < -budgetSumTolerance {
			issues = append(issues, types.ValidationIssue{
				RowIndex:      rowIndex,
				FieldName:     string(FieldTotalBudget),
				Severity:      types.SeverityWarning,
				Message:       fmt.Sprintf("quarterly budgets sum to %v, total is %v", sum, *total),
				ObservedValue: fmt.Sprintf("%v", *total),
			})
		}
	}

	return issues
}

func (e *Engine) duplicateKey(row MappedRow) (string, bool) {
	if len(e.profile.DuplicateKey) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(e.profile.DuplicateKey))
	any := false
	for _, field := range e.profile.DuplicateKey {
		v, ok := row[field]
		if ok {
			any = true
			parts = append(parts, v.KeyString())
		} else {
			parts = append(parts, "")
		}
	}
	if !any {
		return "", false
	}
	return strings.Join(parts, "|"), true
}

func (e *Engine) duplicateKeyName() string {
	parts := make([]string, len(e.profile.DuplicateKey))
	for i, f := range e.profile.DuplicateKey {
		parts[i] = string(f)
	}
	return strings.Join(parts, "+")
}

func critical(rowIndex int, field Field, message, observed string) types.ValidationIssue {
	return types.ValidationIssue{
		RowIndex:      rowIndex,
		FieldName:     string(field),
		Severity:      types.SeverityCritical,
		Message:       message,
		ObservedValue: observed,
	}
}
