package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/repos"
)

// MasterDataHandler exposes read-only views of the taxonomy tables the
// resolver maintains.
type MasterDataHandler struct {
	log           *logger.Logger
	subRegions    repos.SubRegionRepo
	countries     repos.CountryRepo
	businessUnits repos.BusinessUnitRepo
	categories    repos.CategoryRepo
	ranges        repos.RangeRepo
	mediaTypes    repos.MediaTypeRepo
}

func NewMasterDataHandler(
	log *logger.Logger,
	subRegions repos.SubRegionRepo,
	countries repos.CountryRepo,
	businessUnits repos.BusinessUnitRepo,
	categories repos.CategoryRepo,
	ranges repos.RangeRepo,
	mediaTypes repos.MediaTypeRepo,
) *MasterDataHandler {
	return &MasterDataHandler{
		log:           log.With("handler", "MasterDataHandler"),
		subRegions:    subRegions,
		countries:     countries,
		businessUnits: businessUnits,
		categories:    categories,
		ranges:        ranges,
		mediaTypes:    mediaTypes,
	}
}

// GET /api/master/sub-regions
func (h *MasterDataHandler) ListSubRegions(c *gin.Context) {
	rows, err := h.subRegions.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}

// GET /api/master/countries
func (h *MasterDataHandler) ListCountries(c *gin.Context) {
	rows, err := h.countries.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}

// GET /api/master/business-units
func (h *MasterDataHandler) ListBusinessUnits(c *gin.Context) {
	rows, err := h.businessUnits.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}

// GET /api/master/categories
func (h *MasterDataHandler) ListCategories(c *gin.Context) {
	rows, err := h.categories.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}

// GET /api/master/ranges
func (h *MasterDataHandler) ListRanges(c *gin.Context) {
	rows, err := h.ranges.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}

// GET /api/master/media-types
func (h *MasterDataHandler) ListMediaTypes(c *gin.Context) {
	rows, err := h.mediaTypes.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, rows)
}
