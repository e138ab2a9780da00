package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/mediaplan-backend/internal/importer"
	"github.com/yungbote/mediaplan-backend/internal/logger"
	apperrors "github.com/yungbote/mediaplan-backend/internal/pkg/errors"
	"github.com/yungbote/mediaplan-backend/internal/repos"
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

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.SubRegion{},
		&types.Country{},
		&types.BusinessUnit{},
		&types.Category{},
		&types.Range{},
		&types.CategoryToRange{},
		&types.Campaign{},
		&types.MediaType{},
		&types.MediaSubtype{},
		&types.Period{},
		&types.GamePlan{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type testEnv struct {
	svc       ImportService
	db        *gorm.DB
	store     *MemorySessionStore
	gamePlans repos.GamePlanRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	log := testLogger(t)
	store := NewMemorySessionStore()

	subRegions := repos.NewSubRegionRepo(db, log)
	countries := repos.NewCountryRepo(db, log)
	businessUnits := repos.NewBusinessUnitRepo(db, log)
	categories := repos.NewCategoryRepo(db, log)
	ranges := repos.NewRangeRepo(db, log)
	campaigns := repos.NewCampaignRepo(db, log)
	mediaTypes := repos.NewMediaTypeRepo(db, log)
	mediaSubtypes := repos.NewMediaSubtypeRepo(db, log)
	periods := repos.NewPeriodRepo(db, log)
	gamePlans := repos.NewGamePlanRepo(db, log)

	resolver := importer.NewResolver(subRegions, countries, businessUnits, categories, ranges, campaigns, mediaTypes, mediaSubtypes, log)
	svc := NewImportService(db, log, store, importer.DefaultProfiles(), resolver, gamePlans, countries, periods, businessUnits, 2)

	return &testEnv{svc: svc, db: db, store: store, gamePlans: gamePlans}
}

func gamePlanCSV(campaigns ...string) string {
	var b strings.Builder
	b.WriteString("Country,Category,Range,Campaign,Media,Year,Total Budget\n")
	for _, c := range campaigns {
		b.WriteString(fmt.Sprintf("UK,Face Care,Q10,%s,TV,2025,100000\n", c))
	}
	return b.String()
}

// runImport pushes one file through upload, validate and import for the
// given business unit and returns the finished session.
func runImport(t *testing.T, env *testEnv, businessUnit string, campaigns ...string) *types.ImportSession {
	t.Helper()
	ctx := context.Background()

	session, err := env.svc.Upload(ctx, UploadInput{
		ImportType:       "gameplan",
		FileName:         "plan.csv",
		Reader:           strings.NewReader(gamePlanCSV(campaigns...)),
		CountryName:      "UK",
		PeriodName:       "FY25",
		BusinessUnitName: businessUnit,
		UploadedBy:       "tester",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	summary, err := env.svc.Validate(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if summary.Critical != 0 {
		t.Fatalf("unexpected critical issues: %+v", summary)
	}

	results, err := env.svc.Import(ctx, session.SessionID, "tester")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if results.ErrorCount != 0 {
		t.Fatalf("row errors: %+v", results.ErrorSample)
	}

	finished, err := env.svc.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	return finished
}

func TestImportPipelineHappyPath(t *testing.T) {
	env := newTestEnv(t)
	session := runImport(t, env, "Nivea", "Summer Glow", "Winter Care")

	if session.Status != types.SessionImported {
		t.Fatalf("status = %s, want imported", session.Status)
	}
	if session.ImportResults == nil || session.ImportResults.SuccessCount != 2 {
		t.Fatalf("import results = %+v", session.ImportResults)
	}
	if session.ImportResults.ImportedAt == "" {
		t.Fatal("importedAt not recorded")
	}

	rows, err := env.gamePlans.GetByScope(context.Background(), nil, session.Scope)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows in scope = %d, want 2", len(rows))
	}
	first := rows[0]
	if first.CampaignID == nil || first.CategoryID == nil || first.RangeID == nil || first.MediaTypeID == nil {
		t.Fatalf("row references not resolved: %+v", first)
	}
	if first.TotalBudget == nil || *first.TotalBudget != 100000 {
		t.Fatalf("budget = %v", first.TotalBudget)
	}
	if first.UploadSession != session.SessionID {
		t.Fatal("provenance session id missing")
	}
}

func TestScopeIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	niveaFirst := runImport(t, env, "Nivea", "Nivea One", "Nivea Two")
	derma := runImport(t, env, "Derma", "Derma One", "Derma Two")

	// Re-import Nivea with three new rows; Derma must be untouched.
	niveaSecond := runImport(t, env, "Nivea", "Nivea Three", "Nivea Four", "Nivea Five")

	niveaCount, err := env.gamePlans.CountByScope(ctx, nil, niveaSecond.Scope)
	if err != nil {
		t.Fatal(err)
	}
	if niveaCount != 3 {
		t.Fatalf("nivea rows = %d, want 3", niveaCount)
	}

	dermaRows, err := env.gamePlans.GetByScope(ctx, nil, derma.Scope)
	if err != nil {
		t.Fatal(err)
	}
	if len(dermaRows) != 2 {
		t.Fatalf("derma rows = %d, want 2 (unchanged)", len(dermaRows))
	}
	names := map[string]bool{}
	for _, row := range dermaRows {
		names[row.CampaignName] = true
	}
	if !names["Derma One"] || !names["Derma Two"] {
		t.Fatalf("derma campaigns changed: %v", names)
	}

	_ = niveaFirst
}

func TestCompleteReplaceNotMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	runImport(t, env, "Nivea", "Old A", "Old B")
	second := runImport(t, env, "Nivea", "New C")

	rows, err := env.gamePlans.GetByScope(ctx, nil, second.Scope)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (first import fully superseded)", len(rows))
	}
	if rows[0].CampaignName != "New C" {
		t.Fatalf("lingering row: %s", rows[0].CampaignName)
	}
}

func TestImportGatedOnCriticalIssues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Missing required columns (category, range, media, year, budget).
	csv := "Country,Campaign\nUK,Summer Glow\n"
	session, err := env.svc.Upload(ctx, UploadInput{
		ImportType:  "gameplan",
		Reader:      strings.NewReader(csv),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	summary, err := env.svc.Validate(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if summary.Critical == 0 {
		t.Fatal("expected critical issues")
	}

	_, err = env.svc.Import(ctx, session.SessionID, "tester")
	if !errors.Is(err, apperrors.ErrCriticalIssues) {
		t.Fatalf("err = %v, want ErrCriticalIssues", err)
	}

	// The store must be completely untouched.
	var count int64
	if err := env.db.Model(&types.GamePlan{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("fact rows = %d, want 0", count)
	}
}

func TestImportRequiresValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.svc.Upload(ctx, UploadInput{
		ImportType:  "gameplan",
		Reader:      strings.NewReader(gamePlanCSV("Summer Glow")),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err = env.svc.Import(ctx, session.SessionID, "tester")
	if !errors.Is(err, apperrors.ErrSessionNotValidated) {
		t.Fatalf("err = %v, want ErrSessionNotValidated", err)
	}
}

func TestUploadStructuralErrorCreatesNoSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ragged := "Country,Campaign\nUK\n"
	_, err := env.svc.Upload(ctx, UploadInput{
		ImportType:  "gameplan",
		Reader:      strings.NewReader(ragged),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestUploadUnknownImportType(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Upload(context.Background(), UploadInput{
		ImportType:  "mystery",
		Reader:      strings.NewReader(gamePlanCSV("X")),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.GetSession(context.Background(), "nope")
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDuplicateRowsBlockSufficiencyImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	csv := "Country,Target Audience,Total Budget\nUK,F 18-45,100000\nUK,F 18-45,100000\n"
	session, err := env.svc.Upload(ctx, UploadInput{
		ImportType:  "mediasufficiency",
		Reader:      strings.NewReader(csv),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	summary, err := env.svc.Validate(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if summary.Critical != 1 {
		t.Fatalf("critical = %d, want 1 (second occurrence only)", summary.Critical)
	}

	_, err = env.svc.Import(ctx, session.SessionID, "tester")
	if !errors.Is(err, apperrors.ErrCriticalIssues) {
		t.Fatalf("err = %v, want ErrCriticalIssues", err)
	}
}

func TestRevalidateAfterFixIsAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.svc.Upload(ctx, UploadInput{
		ImportType:  "gameplan",
		Reader:      strings.NewReader(gamePlanCSV("Summer Glow")),
		CountryName: "UK",
		PeriodName:  "FY25",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Validation is idempotent; a second run must not duplicate issues or
	// master data.
	if _, err := env.svc.Validate(ctx, session.SessionID); err != nil {
		t.Fatal(err)
	}
	summary, err := env.svc.Validate(ctx, session.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Critical != 0 {
		t.Fatalf("critical = %d", summary.Critical)
	}

	var count int64
	if err := env.db.Model(&types.Campaign{}).Where("name = ?", "Summer Glow").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("campaign rows = %d, want 1", count)
	}
}
