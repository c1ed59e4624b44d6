package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seojin-dev/moodshift-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		Sentence  string `json:"sentence"`
		Character string `json:"character"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reply, err := ch.chatService.Chat(c.Request.Context(), req.Sentence, req.Character)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (ch *ChatHandler) Recommend(c *gin.Context) {
	var req struct {
		Type                string `json:"type"`
		Character           string `json:"character"`
		ConversationHistory string `json:"conversation_history"`
		TopK                int    `json:"top_k"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reply, err := ch.chatService.RecommendWithNarration(
		c.Request.Context(), req.ConversationHistory, req.Type, req.Character, req.TopK)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
