package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
)

// MaxDaysAhead bounds the days_ahead query parameter. Omitting it uses the
// engine default of a week ahead.
const MaxDaysAhead = 365

type AnalyticsHandler struct {
	analyticsService  service.AnalyticsService
	predictionService service.PredictionService
	dashboardService  service.DashboardService
}

// NewAnalyticsHandler creates the handler for stats, predictions and the dashboard
func NewAnalyticsHandler(analytics service.AnalyticsService, predictions service.PredictionService, dashboard service.DashboardService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analytics,
		predictionService: predictions,
		dashboardService:  dashboard,
	}
}

// GetSummary handles GET /api/v1/analytics/summary?start_date=&end_date=
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var fieldErrors []apierror.FieldError
	startDate := parseTimeQuery(c, "start_date", &fieldErrors)
	endDate := parseTimeQuery(c, "end_date", &fieldErrors)
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "start_date",
			Message: "must be before or equal to end_date",
			Code:    "invalid_range",
		})
	}
	if len(fieldErrors) > 0 {
		invalidParams(c, fieldErrors)
		return
	}

	summary, err := h.analyticsService.GetSummary(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		writeServiceError(c, err, "Mood summary", "")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetWeeklySummary handles GET /api/v1/analytics/weekly
func (h *AnalyticsHandler) GetWeeklySummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	weekly, err := h.analyticsService.GetWeeklySummary(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Weekly summary", "")
		return
	}

	c.JSON(http.StatusOK, weekly)
}

// GetPrediction handles GET /api/v1/predictions?days_ahead=&target_date=
func (h *AnalyticsHandler) GetPrediction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var opts service.PredictOptions
	var fieldErrors []apierror.FieldError
	if v := c.Query("days_ahead"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxDaysAhead {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "days_ahead",
				Message: "must be an integer between 1 and " + strconv.Itoa(MaxDaysAhead),
				Code:    "out_of_range",
			})
		}
		opts.DaysAhead = n
	}
	opts.TargetDate = parseTimeQuery(c, "target_date", &fieldErrors)
	if len(fieldErrors) > 0 {
		invalidParams(c, fieldErrors)
		return
	}

	pred, err := h.predictionService.Predict(c.Request.Context(), userID, opts)
	if err != nil {
		writeServiceError(c, err, "Prediction", "")
		return
	}

	c.JSON(http.StatusOK, pred)
}

// GetDashboard handles GET /api/v1/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	dash, err := h.dashboardService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Dashboard", "")
		return
	}

	c.JSON(http.StatusOK, dash)
}

// parseTimeQuery reads an optional RFC3339 query parameter, recording a field
// error when it does not parse
func parseTimeQuery(c *gin.Context, name string, fieldErrors *[]apierror.FieldError) *time.Time {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		*fieldErrors = append(*fieldErrors, apierror.FieldError{
			Field:   name,
			Message: "must be a valid RFC3339 timestamp",
			Code:    "invalid_format",
		})
		return nil
	}
	return &t
}
