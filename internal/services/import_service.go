package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/importer"
	"github.com/yungbote/mediaplan-backend/internal/logger"
	apperrors "github.com/yungbote/mediaplan-backend/internal/pkg/errors"
	"github.com/yungbote/mediaplan-backend/internal/repos"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

const errorSampleLimit = 10

type UploadInput struct {
	ImportType       string
	FileName         string
	Reader           io.Reader
	CountryName      string
	PeriodName       string
	BusinessUnitName string
	UploadedBy       string
}

// ImportService drives an upload through the whole reconciliation
// pipeline: parse, map, resolve, validate, and finally the scoped replace
// into the fact table.
type ImportService interface {
	Upload(ctx context.Context, input UploadInput) (*types.ImportSession, error)
	Validate(ctx context.Context, sessionID string) (*types.ValidationSummary, error)
	Import(ctx context.Context, sessionID, actor string) (*types.ImportResults, error)
	GetSession(ctx context.Context, sessionID string) (*types.ImportSession, error)
}

type importService struct {
	db        *gorm.DB
	log       *logger.Logger
	sessions  SessionStore
	profiles  map[string]importer.Profile
	resolver  *importer.Resolver
	gamePlans repos.GamePlanRepo
	countries repos.CountryRepo
	periods   repos.PeriodRepo
	bus       repos.BusinessUnitRepo
	batchSize int
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessions SessionStore,
	profiles map[string]importer.Profile,
	resolver *importer.Resolver,
	gamePlans repos.GamePlanRepo,
	countries repos.CountryRepo,
	periods repos.PeriodRepo,
	businessUnits repos.BusinessUnitRepo,
	batchSize int,
) ImportService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &importService{
		db:        db,
		log:       baseLog.With("service", "ImportService"),
		sessions:  sessions,
		profiles:  profiles,
		resolver:  resolver,
		gamePlans: gamePlans,
		countries: countries,
		periods:   periods,
		bus:       businessUnits,
		batchSize: batchSize,
	}
}

// Upload parses the file and pins the session scope. Structural file errors
// abort here with no session created; scope names are resolved up front
// (create-if-absent) so every later stage works on identifiers.
func (s *importService) Upload(ctx context.Context, input UploadInput) (*types.ImportSession, error) {
	if _, ok := s.profiles[input.ImportType]; !ok {
		return nil, fmt.Errorf("%w: unknown import type %q", apperrors.ErrInvalidArgument, input.ImportType)
	}
	if strings.TrimSpace(input.CountryName) == "" || strings.TrimSpace(input.PeriodName) == "" {
		return nil, fmt.Errorf("%w: country and period are required", apperrors.ErrInvalidArgument)
	}

	headers, records, err := importer.ParseCSV(input.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, err)
	}

	country, err := s.countries.GetOrCreateByName(ctx, nil, strings.TrimSpace(input.CountryName), nil)
	if err != nil {
		return nil, fmt.Errorf("resolve scope country: %w", err)
	}
	period, err := s.periods.GetOrCreateByName(ctx, nil, strings.TrimSpace(input.PeriodName))
	if err != nil {
		return nil, fmt.Errorf("resolve scope period: %w", err)
	}

	scope := types.ImportScope{CountryID: country.ID, PeriodID: period.ID}
	buName := strings.TrimSpace(input.BusinessUnitName)
	if buName != "" {
		bu, err := s.bus.GetOrCreateByName(ctx, nil, buName)
		if err != nil {
			return nil, fmt.Errorf("resolve scope business unit: %w", err)
		}
		scope.BusinessUnitID = &bu.ID
	}

	now := time.Now().UTC()
	session := &types.ImportSession{
		SessionID:        uuid.NewString(),
		ImportType:       input.ImportType,
		Status:           types.SessionUploaded,
		Headers:          headers,
		RawRecords:       records,
		Scope:            scope,
		CountryName:      country.Name,
		PeriodName:       period.Name,
		BusinessUnitName: buName,
		UploadedBy:       input.UploadedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info("Upload accepted", "session_id", session.SessionID, "import_type", input.ImportType, "rows", len(records), "file", input.FileName)
	return session, nil
}

// Validate maps, resolves and validates every row in file order and stores
// the issue list and summary on the session. Master-data entities named by
// the file are created here, so validation already reports exactly what
// import will use. Safe to re-run; resolution is idempotent.
func (s *importService) Validate(ctx context.Context, sessionID string) (*types.ValidationSummary, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == types.SessionImporting {
		return nil, fmt.Errorf("%w: session %s is importing", apperrors.ErrInvalidArgument, sessionID)
	}
	profile := s.profiles[session.ImportType]

	rows := make([]importer.MappedRow, len(session.RawRecords))
	var issues []types.ValidationIssue
	rc := importer.NewResolveContext()
	for i, record := range session.RawRecords {
		row, mapIssues := importer.MapRow(i, record)
		issues = append(issues, mapIssues...)

		_, resolveIssues := s.resolver.ResolveRow(ctx, nil, rc, i, row)
		issues = append(issues, resolveIssues...)

		rows[i] = row
	}

	engine := importer.NewEngine(profile, s.log)
	ruleIssues, _ := engine.Validate(rows)
	issues = append(issues, ruleIssues...)
	summary := importer.Summarize(issues)

	session.Issues = issues
	session.ValidationSummary = &summary
	session.Status = types.SessionValidated
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info("Validation finished", "session_id", sessionID,
		"critical", summary.Critical, "warning", summary.Warning, "suggestion", summary.Suggestion)
	return &summary, nil
}

// Import performs the scoped replace. Preconditions: the session is
// validated and carries zero critical issues. The delete and all inserts
// run inside one outer transaction so the store never holds a mix of old
// and new rows for the scope; inside it, each batch (and on batch failure,
// each row) gets its own savepoint so one bad row is recorded and skipped
// instead of sinking the run.
func (s *importService) Import(ctx context.Context, sessionID, actor string) (*types.ImportResults, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != types.SessionValidated {
		return nil, fmt.Errorf("%w: session %s has status %s", apperrors.ErrSessionNotValidated, sessionID, session.Status)
	}
	if session.ValidationSummary == nil || session.ValidationSummary.Critical > 0 {
		count := 0
		if session.ValidationSummary != nil {
			count = session.ValidationSummary.Critical
		}
		return nil, fmt.Errorf("%w: %d critical issues", apperrors.ErrCriticalIssues, count)
	}

	session.Status = types.SessionImporting
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	results := &types.ImportResults{TotalRecords: len(session.RawRecords)}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gamePlans.DeleteByScope(ctx, tx, session.Scope); err != nil {
			return fmt.Errorf("delete scope: %w", err)
		}

		rc := importer.NewResolveContext()
		for start := 0; start < len(session.RawRecords); start += s.batchSize {
			end := start + s.batchSize
			if end > len(session.RawRecords) {
				end = len(session.RawRecords)
			}
			s.importBatch(ctx, tx, rc, session, actor, start, end, results)
		}
		return nil
	})

	now := time.Now().UTC()
	if txErr != nil {
		session.Status = types.SessionError
		session.UpdatedAt = now
		if updErr := s.sessions.Update(ctx, session); updErr != nil {
			s.log.Error("Failed to persist error status", "session_id", sessionID, "error", updErr)
		}
		return nil, fmt.Errorf("import scope: %w", txErr)
	}

	results.ImportedAt = now.Format(time.RFC3339)
	session.ImportResults = results
	session.Status = types.SessionImported
	session.UpdatedAt = now
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info("Import finished", "session_id", sessionID, "actor", actor,
		"total", results.TotalRecords, "success", results.SuccessCount, "errors", results.ErrorCount)
	return results, nil
}

func (s *importService) GetSession(ctx context.Context, sessionID string) (*types.ImportSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// importBatch builds and inserts rows [start, end). The batch insert runs
// under a savepoint; if it fails, every row is retried alone under its own
// savepoint so only genuinely bad rows end up in the error sample.
func (s *importService) importBatch(ctx context.Context, tx *gorm.DB, rc *importer.ResolveContext, session *types.ImportSession, actor string, start, end int, results *types.ImportResults) {
	var rows []*types.GamePlan
	indices := make(map[*types.GamePlan]int)
	for i := start; i < end; i++ {
		row, err := s.buildRow(ctx, tx, rc, session, actor, i)
		if err != nil {
			recordRowError(results, i, err.Error())
			continue
		}
		rows = append(rows, row)
		indices[row] = i
	}
	if len(rows) == 0 {
		return
	}

	batchErr := tx.Transaction(func(btx *gorm.DB) error {
		_, err := s.gamePlans.Create(ctx, btx, rows)
		return err
	})
	if batchErr == nil {
		results.SuccessCount += len(rows)
		return
	}

	s.log.Warn("Batch insert failed, retrying rows individually", "session_id", session.SessionID, "batch_start", start, "error", batchErr)
	for _, row := range rows {
		row.ID = 0
		rowErr := tx.Transaction(func(btx *gorm.DB) error {
			_, err := s.gamePlans.Create(ctx, btx, []*types.GamePlan{row})
			return err
		})
		if rowErr != nil {
			recordRowError(results, indices[row], rowErr.Error())
			continue
		}
		results.SuccessCount++
	}
}

func (s *importService) buildRow(ctx context.Context, tx *gorm.DB, rc *importer.ResolveContext, session *types.ImportSession, actor string, rowIndex int) (*types.GamePlan, error) {
	record := session.RawRecords[rowIndex]
	row, mapIssues := importer.MapRow(rowIndex, record)
	for _, issue := range mapIssues {
		if issue.Severity == types.SeverityCritical {
			return nil, fmt.Errorf("%s: %s", issue.FieldName, issue.Message)
		}
	}

	refs, refIssues := s.resolver.ResolveRow(ctx, tx, rc, rowIndex, row)
	for _, issue := range refIssues {
		if issue.Severity == types.SeverityCritical {
			return nil, fmt.Errorf("%s: %s", issue.FieldName, issue.Message)
		}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode raw row: %w", err)
	}

	uploadedBy := actor
	if uploadedBy == "" {
		uploadedBy = session.UploadedBy
	}

	return &types.GamePlan{
		CountryID:       session.Scope.CountryID,
		PeriodID:        session.Scope.PeriodID,
		BusinessUnitID:  session.Scope.BusinessUnitID,
		SubRegionID:     refs.SubRegionID,
		CategoryID:      refs.CategoryID,
		RangeID:         refs.RangeID,
		CampaignID:      refs.CampaignID,
		MediaTypeID:     refs.MediaTypeID,
		MediaSubtypeID:  refs.MediaSubtypeID,
		CampaignName:    row.Text(importer.FieldCampaign),
		RangeName:       row.Text(importer.FieldRange),
		Year:            row.Int(importer.FieldYear),
		StartDate:       row.Date(importer.FieldStartDate),
		EndDate:         row.Date(importer.FieldEndDate),
		WeeksOnAir:      row.Int(importer.FieldWeeksOnAir),
		WeeksOffAir:     row.Int(importer.FieldWeeksOffAir),
		TotalBudget:     row.Dec(importer.FieldTotalBudget),
		Q1Budget:        row.Dec(importer.FieldQ1Budget),
		Q2Budget:        row.Dec(importer.FieldQ2Budget),
		Q3Budget:        row.Dec(importer.FieldQ3Budget),
		Q4Budget:        row.Dec(importer.FieldQ4Budget),
		TRPs:            row.Dec(importer.FieldTRPs),
		Reach1Plus:      row.Dec(importer.FieldReach1Plus),
		Reach2Plus:      row.Dec(importer.FieldReach2Plus),
		Reach3Plus:      row.Dec(importer.FieldReach3Plus),
		SaturationPoint: row.Dec(importer.FieldSaturation),
		TargetAudience:  row.Text(importer.FieldTargetAudience),
		Gender:          strings.ToUpper(row.Text(importer.FieldGender)),
		MinAge:          row.Int(importer.FieldMinAge),
		MaxAge:          row.Int(importer.FieldMaxAge),
		UploadedBy:      uploadedBy,
		UploadSession:   session.SessionID,
		RowIndex:        rowIndex,
		RawRow:          raw,
	}, nil
}

func recordRowError(results *types.ImportResults, rowIndex int, message string) {
	results.ErrorCount++
	if len(results.ErrorSample) < errorSampleLimit {
		results.ErrorSample = append(results.ErrorSample, types.RowError{RowIndex: rowIndex, Message: message})
	}
}
