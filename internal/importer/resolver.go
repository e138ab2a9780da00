package importer

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/repos"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

// ResolvedRefs holds the taxonomy identifiers reconciled for one row. A nil
// id means the source row left that reference blank, or resolution failed
// and a critical issue was raised; either way the row survives for review.
type ResolvedRefs struct {
	SubRegionID    *uint
	CountryID      *uint
	BusinessUnitID *uint
	CategoryID     *uint
	RangeID        *uint
	CampaignID     *uint
	MediaTypeID    *uint
	MediaSubtypeID *uint
}

// ResolveContext caches (entity, parent, name) -> id for one import run.
// It is an explicit argument, never package state, so concurrent runs for
// different scopes stay independent. The cache also keeps resolution
// idempotent when a name repeats hundreds of times in one file.
type ResolveContext struct {
	ids map[string]uint
}

func NewResolveContext() *ResolveContext {
	return &ResolveContext{ids: make(map[string]uint)}
}

func (rc *ResolveContext) key(entity string, parent *uint, name string) string {
	p := ""
	if parent != nil {
		p = fmt.Sprint(*parent)
	}
	return entity + "\x1f" + p + "\x1f" + strings.ToLower(strings.TrimSpace(name))
}

func (rc *ResolveContext) get(entity string, parent *uint, name string) (uint, bool) {
	id, ok := rc.ids[rc.key(entity, parent, name)]
	return id, ok
}

func (rc *ResolveContext) put(entity string, parent *uint, name string, id uint) {
	rc.ids[rc.key(entity, parent, name)] = id
}

// Resolver reconciles row references against the master-data tables,
// creating entities that do not exist yet. Order follows the FK
// dependencies: sub-region before country, business unit before category,
// media type before media subtype; category and range resolve independently
// and then get linked.
type Resolver struct {
	subRegions    repos.SubRegionRepo
	countries     repos.CountryRepo
	businessUnits repos.BusinessUnitRepo
	categories    repos.CategoryRepo
	ranges        repos.RangeRepo
	campaigns     repos.CampaignRepo
	mediaTypes    repos.MediaTypeRepo
	mediaSubtypes repos.MediaSubtypeRepo
	log           *logger.Logger
}

func NewResolver(
	subRegions repos.SubRegionRepo,
	countries repos.CountryRepo,
	businessUnits repos.BusinessUnitRepo,
	categories repos.CategoryRepo,
	ranges repos.RangeRepo,
	campaigns repos.CampaignRepo,
	mediaTypes repos.MediaTypeRepo,
	mediaSubtypes repos.MediaSubtypeRepo,
	baseLog *logger.Logger,
) *Resolver {
	return &Resolver{
		subRegions:    subRegions,
		countries:     countries,
		businessUnits: businessUnits,
		categories:    categories,
		ranges:        ranges,
		campaigns:     campaigns,
		mediaTypes:    mediaTypes,
		mediaSubtypes: mediaSubtypes,
		log:           baseLog.With("component", "MasterDataResolver"),
	}
}

// ResolveRow resolves every reference field present on the row. An empty
// reference is a valid null link; a non-empty name that cannot be resolved
// or created becomes a critical issue and leaves its id nil.
func (r *Resolver) ResolveRow(ctx context.Context, tx *gorm.DB, rc *ResolveContext, rowIndex int, row MappedRow) (ResolvedRefs, []types.ValidationIssue) {
	var refs ResolvedRefs
	var issues []types.ValidationIssue

	fail := func(field Field, name string, err error) {
		issues = append(issues, types.ValidationIssue{
			RowIndex:      rowIndex,
			FieldName:     string(field),
			Severity:      types.SeverityCritical,
			Message:       fmt.Sprintf("could not resolve %s: %v", field, err),
			ObservedValue: name,
		})
	}

	if name := row.Text(FieldSubRegion); name != "" {
		id, err := r.resolve(ctx, rc, "subRegion", nil, name, func() (uint, error) {
			sr, err := r.subRegions.GetOrCreateByName(ctx, tx, name)
			if err != nil {
				return 0, err
			}
			return sr.ID, nil
		})
		if err != nil {
			fail(FieldSubRegion, name, err)
		} else {
			refs.SubRegionID = id
		}
	}

	if name := row.Text(FieldCountry); name != "" {
		id, err := r.resolve(ctx, rc, "country", nil, name, func() (uint, error) {
			c, err := r.countries.GetOrCreateByName(ctx, tx, name, refs.SubRegionID)
			if err != nil {
				return 0, err
			}
			return c.ID, nil
		})
		if err != nil {
			fail(FieldCountry, name, err)
		} else {
			refs.CountryID = id
		}
	}

	if name := row.Text(FieldBusinessUnit); name != "" {
		id, err := r.resolve(ctx, rc, "businessUnit", nil, name, func() (uint, error) {
			bu, err := r.businessUnits.GetOrCreateByName(ctx, tx, name)
			if err != nil {
				return 0, err
			}
			return bu.ID, nil
		})
		if err != nil {
			fail(FieldBusinessUnit, name, err)
		} else {
			refs.BusinessUnitID = id
		}
	}

	if name := row.Text(FieldCategory); name != "" {
		id, err := r.resolve(ctx, rc, "category", nil, name, func() (uint, error) {
			c, err := r.categories.GetOrCreateByName(ctx, tx, name, refs.BusinessUnitID)
			if err != nil {
				return 0, err
			}
			return c.ID, nil
		})
		if err != nil {
			fail(FieldCategory, name, err)
		} else {
			refs.CategoryID = id
		}
	}

	if name := row.Text(FieldRange); name != "" {
		id, err := r.resolve(ctx, rc, "range", nil, name, func() (uint, error) {
			rng, err := r.ranges.GetOrCreateByName(ctx, tx, name)
			if err != nil {
				return 0, err
			}
			return rng.ID, nil
		})
		if err != nil {
			fail(FieldRange, name, err)
		} else {
			refs.RangeID = id
		}
	}

	// A range can belong to many categories; the link is additive and an
	// existing link is never dropped.
	if refs.CategoryID != nil && refs.RangeID != nil {
		if err := r.categories.EnsureRangeLink(ctx, tx, *refs.CategoryID, *refs.RangeID); err != nil {
			fail(FieldRange, row.Text(FieldRange), fmt.Errorf("link to category: %w", err))
		}
	}

	if name := row.Text(FieldCampaign); name != "" {
		id, err := r.resolve(ctx, rc, "campaign", refs.RangeID, name, func() (uint, error) {
			c, err := r.campaigns.GetOrCreateByName(ctx, tx, name, refs.RangeID)
			if err != nil {
				return 0, err
			}
			return c.ID, nil
		})
		if err != nil {
			fail(FieldCampaign, name, err)
		} else {
			refs.CampaignID = id
		}
	}

	if name := row.Text(FieldMediaType); name != "" {
		id, err := r.resolve(ctx, rc, "mediaType", nil, name, func() (uint, error) {
			mt, err := r.mediaTypes.GetOrCreateByName(ctx, tx, name)
			if err != nil {
				return 0, err
			}
			return mt.ID, nil
		})
		if err != nil {
			fail(FieldMediaType, name, err)
		} else {
			refs.MediaTypeID = id
		}
	}

	if name := row.Text(FieldMediaSubtype); name != "" {
		if refs.MediaTypeID == nil {
			fail(FieldMediaSubtype, name, fmt.Errorf("media subtype requires a media type"))
		} else {
			id, err := r.resolve(ctx, rc, "mediaSubtype", refs.MediaTypeID, name, func() (uint, error) {
				st, err := r.mediaSubtypes.GetOrCreateByName(ctx, tx, name, *refs.MediaTypeID)
				if err != nil {
					return 0, err
				}
				return st.ID, nil
			})
			if err != nil {
				fail(FieldMediaSubtype, name, err)
			} else {
				refs.MediaSubtypeID = id
			}
		}
	}

	return refs, issues
}

func (r *Resolver) resolve(ctx context.Context, rc *ResolveContext, entity string, parent *uint, name string, lookup func() (uint, error)) (*uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id, ok := rc.get(entity, parent, name); ok {
		return &id, nil
	}
	id, err := lookup()
	if err != nil {
		return nil, err
	}
	rc.put(entity, parent, name, id)
	return &id, nil
}
