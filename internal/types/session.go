package types

import "time"

type SessionStatus string

const (
	SessionUploaded  SessionStatus = "uploaded"
	SessionValidated SessionStatus = "validated"
	SessionImporting SessionStatus = "importing"
	SessionImported  SessionStatus = "imported"
	SessionError     SessionStatus = "error"
)

type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// ValidationIssue is one finding against one row, recomputed on every
// validation run and kept on the session for review.
type ValidationIssue struct {
	RowIndex      int      `json:"rowIndex"`
	FieldName     string   `json:"fieldName"`
	Severity      Severity `json:"severity"`
	Message       string   `json:"message"`
	ObservedValue string   `json:"observedValue"`
}

type ValidationSummary struct {
	Critical     int `json:"critical"`
	Warning      int `json:"warning"`
	Suggestion   int `json:"suggestion"`
	AffectedRows int `json:"affectedRows"`
}

type ImportScope struct {
	CountryID      uint  `json:"countryId"`
	PeriodID       uint  `json:"periodId"`
	BusinessUnitID *uint `json:"businessUnitId"`
}

type RowError struct {
	RowIndex int    `json:"rowIndex"`
	Message  string `json:"message"`
}

type ImportResults struct {
	TotalRecords int        `json:"totalRecords"`
	SuccessCount int        `json:"successCount"`
	ErrorCount   int        `json:"errorCount"`
	ImportedAt   string     `json:"importedAt"`
	ErrorSample  []RowError `json:"errorSample,omitempty"`
}

// ImportSession is the durable document that carries an upload through
// validation and import. It is never deleted; a finished session stays
// around as the audit record of the run.
type ImportSession struct {
	SessionID  string        `json:"sessionId"`
	ImportType string        `json:"importType"`
	Status     SessionStatus `json:"status"`

	Headers    []string            `json:"headers"`
	RawRecords []map[string]string `json:"rawRecords"`

	Scope             ImportScope `json:"scope"`
	CountryName       string      `json:"countryName"`
	PeriodName        string      `json:"periodName"`
	BusinessUnitName  string      `json:"businessUnitName,omitempty"`

	ValidationSummary *ValidationSummary `json:"validationSummary,omitempty"`
	Issues            []ValidationIssue  `json:"issues,omitempty"`
	ImportResults     *ImportResults     `json:"importResults,omitempty"`

	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
