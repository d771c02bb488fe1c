package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/socialgram/socialgram-server/internal/apierr"
	"github.com/socialgram/socialgram-server/internal/service/messages"
	"github.com/socialgram/socialgram-server/internal/store"
)

// MessageHandlers provides HTTP handlers for direct messaging endpoints.
type MessageHandlers struct {
	svc *messages.Service
	log *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(svc *messages.Service, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		svc: svc,
		log: logger,
	}
}

// SendMessageRequest represents the send message request body.
type SendMessageRequest struct {
	MessageText       string `json:"messageText"`
	AuthorID          int64  `json:"authorId"`
	AuthorNickname    string `json:"authorNickname"`
	RecipientID       int64  `json:"recipientId"`
	RecipientNickname string `json:"recipientNickname"`
}

// SendMessageResponse echoes the parties and carries a localized confirmation.
type SendMessageResponse struct {
	Message                  string `json:"message"`
	MessageAuthorID          int64  `json:"messageAuthorId"`
	MessageAuthorNickname    string `json:"messageAuthorNickname"`
	MessageRecipientID       int64  `json:"messageRecipientId"`
	MessageRecipientNickname string `json:"messageRecipientNickname"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID                int64   `json:"id"`
	CreatedAt         string  `json:"createdAt"`
	MessageText       string  `json:"messageText"`
	AuthorID          int64   `json:"authorId"`
	AuthorNickname    string  `json:"authorNickname"`
	RecipientID       int64   `json:"recipientId"`
	RecipientNickname string  `json:"recipientNickname"`
	AuthorAvatar      *string `json:"authorAvatar,omitempty"`
	RecipientAvatar   *string `json:"recipientAvatar,omitempty"`
	Read              bool    `json:"read"`
}

// DialogResponse represents the dialog retrieval response body.
type DialogResponse struct {
	Message  string            `json:"message"`
	Messages []MessageResponse `json:"messages"`
}

// Send handles sending a direct message.
// POST /api/message/send
func (h *MessageHandlers) Send(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, confirmation, err := h.svc.Send(c.Request.Context(), messages.SendInput{
		AuthorID:          req.AuthorID,
		AuthorNickname:    req.AuthorNickname,
		RecipientID:       req.RecipientID,
		RecipientNickname: req.RecipientNickname,
		Text:              req.MessageText,
	}, uid, c.Query("lang"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info().
		Int64("author_id", msg.AuthorID).
		Int64("recipient_id", msg.RecipientID).
		Msg("message sent")
	c.JSON(http.StatusCreated, SendMessageResponse{
		Message:                  confirmation,
		MessageAuthorID:          msg.AuthorID,
		MessageAuthorNickname:    msg.AuthorNickname,
		MessageRecipientID:       msg.RecipientID,
		MessageRecipientNickname: msg.RecipientNickname,
	})
}

// Dialog handles dialog retrieval with write-on-read marking.
// GET /api/message/:userId/:interlocutorId
func (h *MessageHandlers) Dialog(c *gin.Context) {
	uid, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	interlocutorID, err := strconv.ParseInt(c.Param("interlocutorId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid interlocutor id"})
		return
	}

	msgs, confirmation, err := h.svc.DialogMessages(c.Request.Context(), userID, interlocutorID, uid, c.Query("lang"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		response = append(response, messageResponse(msg))
	}

	c.JSON(http.StatusOK, DialogResponse{
		Message:  confirmation,
		Messages: response,
	})
}

func messageResponse(msg *store.Message) MessageResponse {
	return MessageResponse{
		ID:                msg.ID,
		CreatedAt:         msg.CreatedAt,
		MessageText:       msg.Text,
		AuthorID:          msg.AuthorID,
		AuthorNickname:    msg.AuthorNickname,
		RecipientID:       msg.RecipientID,
		RecipientNickname: msg.RecipientNickname,
		AuthorAvatar:      msg.AuthorAvatar,
		RecipientAvatar:   msg.RecipientAvatar,
		Read:              msg.Read,
	}
}

// respondError maps known error kinds to their status and hides everything
// else behind a generic 500.
func (h *MessageHandlers) respondError(c *gin.Context, err error) {
	if apiErr := apierr.From(err); apiErr != nil {
		c.JSON(apiErr.Status, ErrorResponse{Error: apiErr.Message})
		return
	}
	h.log.Error().Err(err).Msg("message handler failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
