package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitgen/fitness-backend/internal/service"
)

// AdminHandler serves the operator endpoints: dataset loads, exercise media
// administration and the ML training config.
type AdminHandler struct {
	datasetService service.DatasetService
	sessionService service.SessionService
	defaultCSVPath string
}

// NewAdminHandler creates a new AdminHandler. defaultCSVPath is used when a
// load request does not name a file.
func NewAdminHandler(datasetService service.DatasetService, sessionService service.SessionService, defaultCSVPath string) *AdminHandler {
	return &AdminHandler{
		datasetService: datasetService,
		sessionService: sessionService,
		defaultCSVPath: defaultCSVPath,
	}
}

// --- DTOs ---

// LoadDatasetRequest optionally overrides the configured dataset path.
type LoadDatasetRequest struct {
	Path string `json:"path"`
}

// UpdateExerciseRequest patches the admin-editable exercise fields. Omitted
// fields are left unchanged.
type UpdateExerciseRequest struct {
	VideoURL             *string `json:"video_url"`
	VideoDurationSeconds *int    `json:"video_duration_seconds"`
	IsActive             *bool   `json:"is_active"`
}

// MediaUploadRequest asks for a presigned upload URL for exercise media.
type MediaUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UpdateMLConfigRequest patches the readiness-gate thresholds.
type UpdateMLConfigRequest struct {
	TrainingWindowDays     *int `json:"training_window_days"`
	MinSessionsForTraining *int `json:"min_sessions_for_training"`
}

// --- Handler Methods ---

// LoadDataset bulk-loads the exercise CSV into the catalog.
// POST /api/v1/admin/dataset/load
func (h *AdminHandler) LoadDataset(c *gin.Context) {
	// An empty body means "use the configured path".
	var req LoadDatasetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	path := req.Path
	if path == "" {
		path = h.defaultCSVPath
	}

	report, err := h.datasetService.LoadFromCSV(c.Request.Context(), path)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load dataset: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpdateExercise patches media/active fields on a catalog entry.
// PUT /api/v1/admin/dataset/exercises/:exerciseId
func (h *AdminHandler) UpdateExercise(c *gin.Context) {
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.VideoURL == nil && req.VideoDurationSeconds == nil && req.IsActive == nil {
		abortWithError(c, http.StatusBadRequest, "At least one field must be provided.")
		return
	}

	exercise, err := h.datasetService.UpdateExercise(c.Request.Context(),
		c.Param("exerciseId"), req.VideoURL, req.VideoDurationSeconds, req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// MediaUploadURL issues a presigned PUT for new exercise media.
// POST /api/v1/admin/dataset/exercises/:exerciseId/media
func (h *AdminHandler) MediaUploadURL(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	grant, err := h.datasetService.MediaUploadURL(c.Request.Context(), c.Param("exerciseId"), req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		case errors.Is(err, service.ErrMediaUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, "Media storage is not configured.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, grant)
}

// GetMLConfig returns the stored readiness-gate thresholds.
// GET /api/v1/admin/ml-config
func (h *AdminHandler) GetMLConfig(c *gin.Context) {
	cfg, err := h.sessionService.MLConfig(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve ML config.")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateMLConfig patches the readiness-gate thresholds.
// PUT /api/v1/admin/ml-config
func (h *AdminHandler) UpdateMLConfig(c *gin.Context) {
	var req UpdateMLConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.TrainingWindowDays == nil && req.MinSessionsForTraining == nil {
		abortWithError(c, http.StatusBadRequest, "At least one field must be provided.")
		return
	}

	cfg, err := h.sessionService.UpdateMLConfig(c.Request.Context(), req.TrainingWindowDays, req.MinSessionsForTraining)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMLConfig) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update ML config.")
		}
		return
	}
	c.JSON(http.StatusOK, cfg)
}
