package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gynergy/internal/models/request_models"
	"gynergy/internal/models/response_models"
	"gynergy/internal/services"
	"gynergy/pkg/middleware"
	"gynergy/pkg/utils"
)

// multipart framing allowance on top of the file itself
const uploadBodySlack = 512 << 10

type JournalController struct {
	journalService services.JournalServiceInterface
	ocrService     services.OcrServiceInterface
}

func NewJournalController(journalService services.JournalServiceInterface, ocrService services.OcrServiceInterface) *JournalController {
	return &JournalController{
		journalService: journalService,
		ocrService:     ocrService,
	}
}

// Save godoc
// @Summary Save a section of today's entry
// @Description Upserts today's entry, awards section points once and updates the streak
// @Tags Journal
// @Accept json
// @Produce json
// @Param request body request_models.SaveEntryRequest true "Section payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/save [post]
func (j *JournalController) Save(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var req request_models.SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := j.journalService.Save(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Entry saved")
}

// Today godoc
// @Summary Get today's entry
// @Tags Journal
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/today [get]
func (j *JournalController) Today(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	entry, err := j.journalService.Today(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entry, "")
}

// Upload godoc
// @Summary Transcribe a photographed journal page
// @Description Accepts a JPEG, PNG or WebP image up to 5MB and returns the recognized text
// @Tags Journal
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Journal page image"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/upload [post]
func (j *JournalController) Upload(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		utils.RespondError(c, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

	limit := int64(services.MaxUploadBytes + uploadBodySlack)
	if c.Request.ContentLength > limit {
		utils.RespondError(c, http.StatusBadRequest, "File size exceeds maximum of 5MB")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.RespondError(c, http.StatusBadRequest, "File size exceeds maximum of 5MB")
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if header.Size > services.MaxUploadBytes {
		utils.RespondError(c, http.StatusBadRequest, "File size exceeds maximum of 5MB")
		return
	}

	f, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, services.MaxUploadBytes+1))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	text, err := j.ocrService.Transcribe(c.Request.Context(), image)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.TranscriptionResponse{Text: text}, "")
}

// History godoc
// @Summary List past entries
// @Description Newest date first, optionally bounded by from/to (YYYY-MM-DD)
// @Tags History
// @Produce json
// @Param from query string false "First date, inclusive"
// @Param to query string false "Last date, inclusive"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/history [get]
func (j *JournalController) History(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var query request_models.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	entries, err := j.journalService.History(c.Request.Context(), userID, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entries, "")
}

// Calendar godoc
// @Summary Month view of completed sections
// @Tags History
// @Produce json
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/history/calendar [get]
func (j *JournalController) Calendar(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var query request_models.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	days, err := j.journalService.Calendar(c.Request.Context(), userID, query.Month)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, days, "")
}
