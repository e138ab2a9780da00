package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/mediaplan-backend/internal/repos"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

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

func newTestResolver(t *testing.T, db *gorm.DB) *Resolver {
	t.Helper()
	log := testLogger(t)
	return NewResolver(
		repos.NewSubRegionRepo(db, log),
		repos.NewCountryRepo(db, log),
		repos.NewBusinessUnitRepo(db, log),
		repos.NewCategoryRepo(db, log),
		repos.NewRangeRepo(db, log),
		repos.NewCampaignRepo(db, log),
		repos.NewMediaTypeRepo(db, log),
		repos.NewMediaSubtypeRepo(db, log),
		log,
	)
}

func TestResolveRowCreatesHierarchy(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()
	rc := NewResolveContext()

	row := mustMap(t, 0, map[string]string{
		"Sub Region":    "Western Europe",
		"Country":       "UK",
		"Business Unit": "Nivea",
		"Category":      "Face Care",
		"Range":         "Q10",
		"Campaign":      "Summer Glow",
		"Media":         "TV",
		"Media Subtype": "Cable",
	})

	refs, issues := resolver.ResolveRow(ctx, nil, rc, 0, row)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	for name, id := range map[string]*uint{
		"subRegion":    refs.SubRegionID,
		"country":      refs.CountryID,
		"businessUnit": refs.BusinessUnitID,
		"category":     refs.CategoryID,
		"range":        refs.RangeID,
		"campaign":     refs.CampaignID,
		"mediaType":    refs.MediaTypeID,
		"mediaSubtype": refs.MediaSubtypeID,
	} {
		if id == nil {
			t.Fatalf("%s not resolved", name)
		}
	}

	// FK wiring follows the dependency order.
	var country types.Country
	if err := db.First(&country, *refs.CountryID).Error; err != nil {
		t.Fatal(err)
	}
	if country.SubRegionID == nil || *country.SubRegionID != *refs.SubRegionID {
		t.Fatal("country not linked to sub-region")
	}
	var subtype types.MediaSubtype
	if err := db.First(&subtype, *refs.MediaSubtypeID).Error; err != nil {
		t.Fatal(err)
	}
	if subtype.MediaTypeID != *refs.MediaTypeID {
		t.Fatal("subtype not linked to media type")
	}
}

func TestResolveIdempotent(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()

	row := mustMap(t, 0, map[string]string{"Country": "UK"})

	// Two resolves with two fresh contexts must hit the same stored row.
	refs1, _ := resolver.ResolveRow(ctx, nil, NewResolveContext(), 0, row)
	refs2, _ := resolver.ResolveRow(ctx, nil, NewResolveContext(), 0, row)
	if *refs1.CountryID != *refs2.CountryID {
		t.Fatalf("ids differ: %d vs %d", *refs1.CountryID, *refs2.CountryID)
	}

	var count int64
	if err := db.Model(&types.Country{}).Where("name = ?", "UK").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("country rows = %d, want exactly 1", count)
	}
}

func TestResolveCaseRelaxed(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()

	upper := mustMap(t, 0, map[string]string{"Country": "UK"})
	lower := mustMap(t, 1, map[string]string{"Country": "uk"})

	refs1, _ := resolver.ResolveRow(ctx, nil, NewResolveContext(), 0, upper)
	refs2, _ := resolver.ResolveRow(ctx, nil, NewResolveContext(), 1, lower)
	if *refs1.CountryID != *refs2.CountryID {
		t.Fatal("case variants must resolve to the same country")
	}
}

func TestCategoryRangeLinkAdditive(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()
	rc := NewResolveContext()

	// Q10 appears under two categories; both links must survive.
	rowA := mustMap(t, 0, map[string]string{"Category": "Face Care", "Range": "Q10"})
	rowB := mustMap(t, 1, map[string]string{"Category": "Body Care", "Range": "Q10"})
	rowARepeat := mustMap(t, 2, map[string]string{"Category": "Face Care", "Range": "Q10"})

	refsA, _ := resolver.ResolveRow(ctx, nil, rc, 0, rowA)
	refsB, _ := resolver.ResolveRow(ctx, nil, rc, 1, rowB)
	resolver.ResolveRow(ctx, nil, rc, 2, rowARepeat)

	if *refsA.RangeID != *refsB.RangeID {
		t.Fatal("same range name must resolve to one range row")
	}

	var links int64
	if err := db.Model(&types.CategoryToRange{}).Where("range_id = ?", *refsA.RangeID).Count(&links).Error; err != nil {
		t.Fatal(err)
	}
	if links != 2 {
		t.Fatalf("links = %d, want 2 (one per category, no duplicates)", links)
	}
}

func TestResolveSubtypeWithoutTypeIsCritical(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()

	row := mustMap(t, 0, map[string]string{"Media Subtype": "Cable"})
	refs, issues := resolver.ResolveRow(ctx, nil, NewResolveContext(), 0, row)
	if refs.MediaSubtypeID != nil {
		t.Fatal("subtype must stay unresolved without a media type")
	}
	if len(issues) != 1 || issues[0].Severity != types.SeverityCritical {
		t.Fatalf("expected one critical issue, got %v", issues)
	}
}

func TestResolveEmptyReferenceIsNullNotError(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()

	row := mustMap(t, 0, map[string]string{"Country": "UK", "Campaign": ""})
	refs, issues := resolver.ResolveRow(ctx, nil, NewResolveContext(), 0, row)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if refs.CampaignID != nil {
		t.Fatal("blank campaign must resolve to null")
	}
}

func TestSubtypeNameScopedByMediaType(t *testing.T) {
	db := openTestDB(t)
	resolver := newTestResolver(t, db)
	ctx := context.Background()
	rc := NewResolveContext()

	tv := mustMap(t, 0, map[string]string{"Media": "TV", "Media Subtype": "Prime"})
	digital := mustMap(t, 1, map[string]string{"Media": "Digital", "Media Subtype": "Prime"})

	refsTV, _ := resolver.ResolveRow(ctx, nil, rc, 0, tv)
	refsDigital, _ := resolver.ResolveRow(ctx, nil, rc, 1, digital)
	if refsTV.MediaSubtypeID == nil || refsDigital.MediaSubtypeID == nil {
		t.Fatal("subtypes not resolved")
	}
	if *refsTV.MediaSubtypeID == *refsDigital.MediaSubtypeID {
		t.Fatal("same subtype name under different media types must be distinct rows")
	}
}
