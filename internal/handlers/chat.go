package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	resp, err := h.chatService.Reply(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Chat", "")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/v1/chat/history?limit=
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > service.MaxPageLimit {
			invalidParams(c, []apierror.FieldError{{
				Field:   "limit",
				Message: "must be an integer between 1 and " + strconv.Itoa(service.MaxPageLimit),
				Code:    "out_of_range",
			}})
			return
		}
		limit = n
	}

	history, err := h.chatService.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeServiceError(c, err, "Conversation", "")
		return
	}

	c.JSON(http.StatusOK, history)
}
