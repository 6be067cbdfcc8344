package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/exchange-chat-service/internal/client/centrifugo"
	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/service"
	"github.com/s21platform/exchange-chat-service/pkg/api"
)

type Handler struct {
	service      ChatService
	validator    Validator
	jwtGenerator JWTGenerator
}

func New(svc ChatService, validator Validator, jwtGenerator JWTGenerator) *Handler {
	return &Handler{
		service:      svc,
		validator:    validator,
		jwtGenerator: jwtGenerator,
	}
}

func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetThreads")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	threads, err := h.service.GetThreads(r.Context(), userUUID)
	if err != nil {
		h.writeServiceError(w, logger, "failed to get threads", err)
		return
	}

	response := api.GetThreadsResponse{
		Threads: make([]api.Thread, 0, len(threads)),
	}
	for _, thread := range threads {
		response.Threads = append(response.Threads, threadToAPI(thread))
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateConversation")

	var req api.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	if err := h.validator.ValidateCreateConversation(&req, userUUID); err != nil {
		logger.Error(fmt.Sprintf("conversation validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("conversation validation failed: %v", err), http.StatusBadRequest)
		return
	}

	conv, err := h.service.StartConversation(r.Context(), userUUID, req.CompanionId, req.BookId)
	if err != nil {
		h.writeServiceError(w, logger, "failed to start conversation", err)
		return
	}

	h.writeJSON(w, api.Conversation{
		Id:          conv.ID,
		CompanionId: conv.Companion(userUUID),
		BookId:      conv.BookID,
		CreatedAt:   conv.CreatedAt,
	}, http.StatusOK)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, conversationId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetMessages")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	messages, err := h.service.GetMessages(r.Context(), conversationId, userUUID)
	if err != nil {
		h.writeServiceError(w, logger, "failed to get messages", err)
		return
	}

	response := api.GetMessagesResponse{
		Messages: make([]api.Message, 0, len(messages)),
	}
	for _, msg := range messages {
		response.Messages = append(response.Messages, messageToAPI(msg))
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request, conversationId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	var req api.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	msg, err := h.service.SendMessage(r.Context(), conversationId, userUUID, req.Text, service.SendOptions{
		BookID: req.BookId,
	})
	if err != nil {
		h.writeServiceError(w, logger, "failed to send message", err)
		return
	}

	h.writeJSON(w, messageToAPI(msg), http.StatusOK)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request, conversationId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MarkRead")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), conversationId, userUUID); err != nil {
		h.writeServiceError(w, logger, "failed to mark conversation as read", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetUnreadCount")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	count, err := h.service.GetUnreadCount(r.Context(), userUUID)
	if err != nil {
		h.writeServiceError(w, logger, "failed to get unread count", err)
		return
	}

	h.writeJSON(w, api.GetUnreadCountResponse{Count: count}, http.StatusOK)
}

func (h *Handler) CreateExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateExchangeRequest")

	var req api.CreateExchangeRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateCreateExchangeRequest(&req); err != nil {
		logger.Error(fmt.Sprintf("exchange request validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("exchange request validation failed: %v", err), http.StatusBadRequest)
		return
	}

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	params := service.ExchangeRequestParams{
		BookID:       req.BookId,
		BarterBookID: req.BarterBookId,
	}
	if req.Note != nil {
		params.Note = *req.Note
	}

	msg, err := h.service.CreateExchangeRequest(r.Context(), conversationId, userUUID, params)
	if err != nil {
		h.writeServiceError(w, logger, "failed to create exchange request", err)
		return
	}

	h.writeJSON(w, messageToAPI(msg), http.StatusOK)
}

func (h *Handler) CancelExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string, messageId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CancelExchangeRequest")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	applied, err := h.service.CancelExchangeRequest(r.Context(), conversationId, messageId, userUUID)
	if err != nil {
		h.writeServiceError(w, logger, "failed to cancel exchange request", err)
		return
	}

	h.writeJSON(w, api.CancelExchangeRequestResponse{Applied: applied}, http.StatusOK)
}

func (h *Handler) ConfirmExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string, messageId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ConfirmExchangeRequest")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	entry, err := h.service.ConfirmExchangeRequest(r.Context(), conversationId, messageId, userUUID)
	if err != nil {
		h.writeServiceError(w, logger, "failed to confirm exchange request", err)
		return
	}

	response := api.ConfirmExchangeRequestResponse{Applied: entry != nil}
	if entry != nil {
		apiEntry := historyToAPI(*entry)
		response.Entry = &apiEntry
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) GetExchangeHistory(w http.ResponseWriter, r *http.Request, params api.GetExchangeHistoryParams) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetExchangeHistory")

	if err := h.validator.ValidateHistoryParams(&params); err != nil {
		logger.Error(fmt.Sprintf("history params validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("history params validation failed: %v", err), http.StatusBadRequest)
		return
	}

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	var limit uint64
	if params.Limit != nil {
		limit = uint64(*params.Limit)
	}

	entries, err := h.service.GetHistory(r.Context(), userUUID, limit)
	if err != nil {
		h.writeServiceError(w, logger, "failed to get exchange history", err)
		return
	}

	response := api.GetExchangeHistoryResponse{
		Entries: make([]api.HistoryEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, historyToAPI(entry))
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) GetConnectToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConnectToken")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateConnectToken(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate access token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate access token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("generated access token for user %s", userUUID))

	h.writeJSON(w, api.GetConnectTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, http.StatusOK)
}

func (h *Handler) GetSubscribeToken(w http.ResponseWriter, r *http.Request, conversationId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetSubscribeToken")

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	isMember, err := h.service.IsMember(r.Context(), conversationId, userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check conversation membership: %v", err))
		h.writeError(w, fmt.Sprintf("failed to check conversation membership: %v", err), http.StatusInternalServerError)
		return
	}

	if !isMember {
		logger.Error("user is not a member of the conversation")
		h.writeError(w, "user is not a member of the conversation", http.StatusForbidden)
		return
	}

	channel := centrifugo.Channel(conversationId)
	token, expiresAt, err := h.jwtGenerator.GenerateSubscribeToken(userUUID, conversationId, channel)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate subscribe token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate subscribe token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("generated subscribe token for user %s, conversation %s", userUUID, conversationId))

	h.writeJSON(w, api.GetSubscribeTokenResponse{
		Token:     token,
		Channel:   channel,
		ExpiresAt: expiresAt,
	}, http.StatusOK)
}

func (h *Handler) GetBatchSubscribeTokens(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetBatchSubscribeTokens")

	var req api.GetBatchSubscribeTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateBatchSubscribe(&req); err != nil {
		logger.Error(fmt.Sprintf("batch subscribe validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("batch subscribe validation failed: %v", err), http.StatusBadRequest)
		return
	}

	userUUID, ok := h.currentUser(w, r, logger)
	if !ok {
		return
	}

	subscriptions := make([]api.ConversationSubscription, 0, len(req.ConversationIds))

	for _, conversationID := range req.ConversationIds {
		isMember, err := h.service.IsMember(r.Context(), conversationID, userUUID)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to check conversation membership for %s: %v", conversationID, err))
			continue
		}

		if !isMember {
			logger.Warn(fmt.Sprintf("user %s is not a member of conversation %s, skipping", userUUID, conversationID))
			continue
		}

		channel := centrifugo.Channel(conversationID)
		token, expiresAt, err := h.jwtGenerator.GenerateSubscribeToken(userUUID, conversationID, channel)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to generate subscribe token for conversation %s: %v", conversationID, err))
			continue
		}

		subscriptions = append(subscriptions, api.ConversationSubscription{
			ConversationId: conversationID,
			Token:          token,
			Channel:        channel,
			ExpiresAt:      expiresAt,
		})
	}

	h.writeJSON(w, api.GetBatchSubscribeTokensResponse{
		Subscriptions: subscriptions,
	}, http.StatusOK)
}

// ParamErrorHandler renders path and query binding failures in the service error format.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(api.Error{Error: err.Error()})
}

// ----------------------------- helpers -----------------------------

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (string, bool) {
	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return "", false
	}
	return userUUID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, logger logger_lib.LoggerInterface, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrNotProposer),
		errors.Is(err, service.ErrProposerCannotConfirm):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrBookNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotPending):
		status = http.StatusConflict
	case errors.Is(err, service.ErrBookUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSelfConversation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("%s: %v", message, err))
	} else {
		logger.Warn(fmt.Sprintf("%s: %v", message, err))
	}
	h.writeError(w, fmt.Sprintf("%s: %v", message, err), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}
