package importer

import (
	"strings"
	"testing"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func mustMap(t *testing.T, idx int, record map[string]string) MappedRow {
	t.Helper()
	row, issues := MapRow(idx, record)
	if len(issues) != 0 {
		t.Fatalf("row %d mapping issues: %v", idx, issues)
	}
	return row
}

func sufficiencyEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(DefaultProfiles()["mediasufficiency"], testLogger(t))
}

func TestValidateRequiredFields(t *testing.T) {
	engine := sufficiencyEngine(t)
	rows := []MappedRow{
		mustMap(t, 0, map[string]string{"Target Audience": "F 18-45", "Total Budget": "1000"}),
	}
	issues, summary := engine.Validate(rows)
	if summary.Critical != 1 {
		t.Fatalf("critical = %d, want 1 (country missing), issues: %v", summary.Critical, issues)
	}
	if issues[0].FieldName != string(FieldCountry) {
		t.Fatalf("issue field = %s, want country", issues[0].FieldName)
	}
}

func TestValidateDemographicRules(t *testing.T) {
	engine := sufficiencyEngine(t)
	cases := []struct {
		name     string
		record   map[string]string
		field    Field
		severity types.Severity
	}{
		{
			name:     "bad_gender",
			record:   map[string]string{"Gender": "X"},
			field:    FieldGender,
			severity: types.SeverityCritical,
		},
		{
			name:     "age_out_of_range",
			record:   map[string]string{"Min Age": "150"},
			field:    FieldMinAge,
			severity: types.SeverityCritical,
		},
		{
			name:     "min_not_below_max",
			record:   map[string]string{"Min Age": "45", "Max Age": "18"},
			field:    FieldMinAge,
			severity: types.SeverityCritical,
		},
		{
			name:     "saturation_above_one",
			record:   map[string]string{"Saturation Point": "1.2"},
			field:    FieldSaturation,
			severity: types.SeverityCritical,
		},
		{
			name:     "reach_above_hundred",
			record:   map[string]string{"Reach 1+": "120"},
			field:    FieldReach1Plus,
			severity: types.SeverityCritical,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := map[string]string{"Country": "UK", "Target Audience": "F 18-45", "Total Budget": "1000"}
			for k, v := range tc.record {
				base[k] = v
			}
			issues, _ := engine.Validate([]MappedRow{mustMap(t, 0, base)})
			found := false
			for _, issue := range issues {
				if issue.FieldName == string(tc.field) && issue.Severity == tc.severity {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s issue on %s, got %v", tc.severity, tc.field, issues)
			}
		})
	}
}

func TestValidateGenderAccepted(t *testing.T) {
	engine := sufficiencyEngine(t)
	for _, g := range []string{"F", "M", "BG", "f", "bg"} {
		row := mustMap(t, 0, map[string]string{
			"Country": "UK", "Target Audience": "A", "Total Budget": "1", "Gender": g,
		})
		issues, _ := engine.Validate([]MappedRow{row})
		for _, issue := range issues {
			if issue.FieldName == string(FieldGender) {
				t.Fatalf("gender %q flagged: %v", g, issue)
			}
		}
	}
}

func TestValidateDateOrder(t *testing.T) {
	engine := sufficiencyEngine(t)
	row := mustMap(t, 0, map[string]string{
		"Country": "UK", "Target Audience": "A", "Total Budget": "1",
		"Start Date": "1-Mar-25", "End Date": "1-Feb-25",
	})
	issues, summary := engine.Validate([]MappedRow{row})
	if summary.Critical != 1 {
		t.Fatalf("critical = %d, want 1, issues %v", summary.Critical, issues)
	}
}

func TestValidateQuarterlyBudgetWarning(t *testing.T) {
	engine := sufficiencyEngine(t)
	row := mustMap(t, 0, map[string]string{
		"Country": "UK", "Target Audience": "A", "Total Budget": "1000",
		"Q1": "100", "Q2": "100", "Q3": "100", "Q4": "100",
	})
	_, summary := engine.Validate([]MappedRow{row})
	if summary.Critical != 0 {
		t.Fatalf("critical = %d, want 0", summary.Critical)
	}
	if summary.Warning != 1 {
		t.Fatalf("warning = %d, want 1 (quarters do not sum to total)", summary.Warning)
	}
}

func TestDuplicateDetectionDeterminism(t *testing.T) {
	engine := sufficiencyEngine(t)
	first := mustMap(t, 0, map[string]string{
		"Country": "UK", "Target Audience": "F 18-45", "Total Budget": "100000",
	})
	second := mustMap(t, 1, map[string]string{
		"Country": "UK", "Target Audience": "F 18-45", "Total Budget": "100000",
	})
	third := mustMap(t, 2, map[string]string{
		"Country": "UK", "Target Audience": "M 18-45", "Total Budget": "100000",
	})

	issues, summary := engine.Validate([]MappedRow{first, second, third})
	if summary.Critical != 1 {
		t.Fatalf("critical = %d, want exactly 1, issues %v", summary.Critical, issues)
	}

	var dup *types.ValidationIssue
	for i := range issues {
		if issues[i].Severity == types.SeverityCritical {
			dup = &issues[i]
		}
	}
	if dup == nil {
		t.Fatal("no critical issue found")
	}
	if dup.RowIndex != 1 {
		t.Fatalf("duplicate flagged on row %d, want row 1 (second occurrence)", dup.RowIndex)
	}
	if !strings.Contains(dup.Message, "targetAudience+totalBudget") {
		t.Fatalf("message must reference the duplicate key: %q", dup.Message)
	}
}

func TestSummarizeCountsDistinctRows(t *testing.T) {
	issues := []types.ValidationIssue{
		{RowIndex: 0, Severity: types.SeverityCritical},
		{RowIndex: 0, Severity: types.SeverityWarning},
		{RowIndex: 2, Severity: types.SeveritySuggestion},
	}
	summary := Summarize(issues)
	if summary.Critical != 1 || summary.Warning != 1 || summary.Suggestion != 1 {
		t.Fatalf("summary counts wrong: %+v", summary)
	}
	if summary.AffectedRows != 2 {
		t.Fatalf("affectedRows = %d, want 2", summary.AffectedRows)
	}
}
