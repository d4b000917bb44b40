package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
)

type MoodHandler struct {
	moodService service.MoodService
}

// NewMoodHandler creates a new mood entry handler
func NewMoodHandler(moodService service.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// CreateMood handles POST /api/v1/moods
func (h *MoodHandler) CreateMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateMoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	entry, err := h.moodService.CreateEntry(c.Request.Context(), userID, &req)
	if err != nil {
		id := ""
		if req.ID != nil {
			id = *req.ID
		}
		writeServiceError(c, err, "Mood entry", id)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListMoods handles GET /api/v1/moods?limit=&offset=
func (h *MoodHandler) ListMoods(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var params models.ListMoodEntriesParams
	var fieldErrors []apierror.FieldError
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > service.MaxPageLimit {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "limit",
				Message: "must be an integer between 1 and " + strconv.Itoa(service.MaxPageLimit),
				Code:    "out_of_range",
			})
		}
		params.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "offset",
				Message: "must be a non-negative integer",
				Code:    "out_of_range",
			})
		}
		params.Offset = n
	}
	if len(fieldErrors) > 0 {
		invalidParams(c, fieldErrors)
		return
	}

	entries, err := h.moodService.ListEntries(c.Request.Context(), userID, params)
	if err != nil {
		writeServiceError(c, err, "Mood entry", "")
		return
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetMood handles GET /api/v1/moods/:id
func (h *MoodHandler) GetMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	entry, err := h.moodService.GetEntry(c.Request.Context(), userID, id)
	if err != nil {
		writeServiceError(c, err, "Mood entry", id)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateMood handles PATCH /api/v1/moods/:id
func (h *MoodHandler) UpdateMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req models.UpdateMoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	entry, err := h.moodService.UpdateEntry(c.Request.Context(), userID, id, &req)
	if err != nil {
		writeServiceError(c, err, "Mood entry", id)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteMood handles DELETE /api/v1/moods/:id
func (h *MoodHandler) DeleteMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.moodService.DeleteEntry(c.Request.Context(), userID, id); err != nil {
		writeServiceError(c, err, "Mood entry", id)
		return
	}

	c.Status(http.StatusNoContent)
}
