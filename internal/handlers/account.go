package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/middleware"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
)

type AccountHandler struct {
	subscriptionService service.SubscriptionService
	insightService      service.InsightService
}

// NewAccountHandler creates the handler for the current user, billing status
// and premium insights
func NewAccountHandler(subscriptions service.SubscriptionService, insights service.InsightService) *AccountHandler {
	return &AccountHandler{
		subscriptionService: subscriptions,
		insightService:      insights,
	}
}

// GetMe handles GET /api/v1/me
func (h *AccountHandler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.subscriptionService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "User", userID)
		return
	}
	if user.Email == "" {
		user.Email = c.GetString(middleware.UserEmailKey)
	}

	c.JSON(http.StatusOK, user)
}

// GetSubscription handles GET /api/v1/subscription
func (h *AccountHandler) GetSubscription(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	info, err := h.subscriptionService.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Subscription", userID)
		return
	}

	c.JSON(http.StatusOK, info)
}

// GenerateInsight handles POST /api/v1/insights/ai
func (h *AccountHandler) GenerateInsight(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	insight, err := h.insightService.GenerateInsight(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "AI insights", "")
		return
	}

	c.JSON(http.StatusOK, insight)
}
