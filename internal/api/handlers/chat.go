package handlers

import (
	"net/http"
	"time"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	chatService *service.ChatService
	log         logrus.FieldLogger
}

func NewChatHandler(chatService *service.ChatService, log logrus.FieldLogger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

type StartChatRequest struct {
	TargetUserID uuid.UUID `json:"targetUserId"`
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

type ChatResponse struct {
	ID            uuid.UUID   `json:"id"`
	Participants  []uuid.UUID `json:"participants"`
	LastMessageAt *time.Time  `json:"lastMessageAt"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func toChatResponse(c *domain.Chat) ChatResponse {
	return ChatResponse{
		ID:            c.ID,
		Participants:  c.Participants(),
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

// Start returns the chat with the target user, creating it on first use.
// It also serves the connect-user endpoint.
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req StartChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chat, err := h.chatService.StartOrGetChat(r.Context(), userID, req.TargetUserID)
	if err != nil {
		response.FromError(w, r, h.log, "chat.Start", err)
		return
	}

	response.JSON(w, http.StatusOK, toChatResponse(chat))
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, h.log, "chat.List", err)
		return
	}

	response.JSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	chatID, ok := uuidParam(w, r, "chatId")
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), chatID, userID)
	if err != nil {
		response.FromError(w, r, h.log, "chat.Messages", err)
		return
	}

	response.JSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	chatID, ok := uuidParam(w, r, "chatId")
	if !ok {
		return
	}

	var req PostMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), chatID, userID, req.Content)
	if err != nil {
		response.FromError(w, r, h.log, "chat.PostMessage", err)
		return
	}

	response.JSON(w, http.StatusCreated, msg)
}
