package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Routes holds everything mounted on the router. Auth guards /api/v1 and
// ChatLimit is applied to POST /api/v1/chat on top of the general limit.
type Routes struct {
	Moods     *MoodHandler
	Analytics *AnalyticsHandler
	Chat      *ChatHandler
	Account   *AccountHandler

	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc
	ChatLimit gin.HandlerFunc
	Metrics   http.Handler
}

// Register mounts the health, metrics and /api/v1 routes on router
func (r Routes) Register(router *gin.Engine) {
	router.GET("/health", Health)
	if r.Metrics != nil {
		router.GET("/metrics", gin.WrapH(r.Metrics))
	}

	v1 := router.Group("/api/v1")
	v1.Use(r.Auth)
	if r.RateLimit != nil {
		v1.Use(r.RateLimit)
	}
	{
		v1.GET("/me", r.Account.GetMe)
		v1.GET("/subscription", r.Account.GetSubscription)
		v1.POST("/insights/ai", r.Account.GenerateInsight)

		v1.POST("/moods", r.Moods.CreateMood)
		v1.GET("/moods", r.Moods.ListMoods)
		v1.GET("/moods/:id", r.Moods.GetMood)
		v1.PATCH("/moods/:id", r.Moods.UpdateMood)
		v1.DELETE("/moods/:id", r.Moods.DeleteMood)

		v1.GET("/analytics/summary", r.Analytics.GetSummary)
		v1.GET("/analytics/weekly", r.Analytics.GetWeeklySummary)
		v1.GET("/predictions", r.Analytics.GetPrediction)
		v1.GET("/dashboard", r.Analytics.GetDashboard)

		chat := []gin.HandlerFunc{r.Chat.Chat}
		if r.ChatLimit != nil {
			chat = append([]gin.HandlerFunc{r.ChatLimit}, chat...)
		}
		v1.POST("/chat", chat...)
		v1.GET("/chat/history", r.Chat.History)
	}
}
