package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	apperrors "github.com/yungbote/mediaplan-backend/internal/pkg/errors"
	"github.com/yungbote/mediaplan-backend/internal/services"
)

type PlanImportHandler struct {
	log           *logger.Logger
	importService services.ImportService
}

func NewPlanImportHandler(log *logger.Logger, isvc services.ImportService) *PlanImportHandler {
	return &PlanImportHandler{
		log:           log.With("handler", "PlanImportHandler"),
		importService: isvc,
	}
}

// POST /api/plans/upload
// Multipart CSV plus scope params; creates the import session.
func (h *PlanImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	importType := c.PostForm("import_type")
	if importType == "" {
		importType = "gameplan"
	}

	session, err := h.importService.Upload(c.Request.Context(), services.UploadInput{
		ImportType:       importType,
		FileName:         fileHeader.Filename,
		Reader:           file,
		CountryName:      c.PostForm("country"),
		PeriodName:       c.PostForm("period"),
		BusinessUnitName: c.PostForm("business_unit"),
		UploadedBy:       c.PostForm("uploaded_by"),
	})
	if err != nil {
		h.respondImportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": session.SessionID,
		"status":    session.Status,
		"rows":      len(session.RawRecords),
	})
}

// POST /api/plans/sessions/:id/validate
func (h *PlanImportHandler) Validate(c *gin.Context) {
	summary, err := h.importService.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	RespondOK(c, gin.H{"validationSummary": summary})
}

// POST /api/plans/sessions/:id/import
func (h *PlanImportHandler) Import(c *gin.Context) {
	var body struct {
		Actor string `json:"actor"`
	}
	_ = c.ShouldBindJSON(&body)

	results, err := h.importService.Import(c.Request.Context(), c.Param("id"), body.Actor)
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	RespondOK(c, gin.H{"importResults": results})
}

// GET /api/plans/sessions/:id
func (h *PlanImportHandler) GetSession(c *gin.Context) {
	session, err := h.importService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	RespondOK(c, session)
}

// Every boundary status is its own code; callers must never have to guess
// which failure they got.
func (h *PlanImportHandler) respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, apperrors.ErrSessionNotValidated):
		RespondError(c, http.StatusConflict, "session_not_validated", err)
	case errors.Is(err, apperrors.ErrCriticalIssues):
		RespondError(c, http.StatusUnprocessableEntity, "critical_validation_errors", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		h.log.Error("Import pipeline failure", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
