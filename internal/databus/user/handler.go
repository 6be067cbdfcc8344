package user

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/model"
)

// UserUpdated is the profile change event published by the user service.
type UserUpdated struct {
	UserUUID   string `json:"user_uuid"`
	Nickname   string `json:"nickname"`
	AvatarLink string `json:"avatar_link"`
}

type Handler struct {
	dbR DBRepo
}

func New(dbR DBRepo) *Handler {
	return &Handler{dbR: dbR}
}

// Handler keeps the denormalized participant profile shown in thread listings
// in sync. Malformed events are logged and skipped.
func (h *Handler) Handler(ctx context.Context, in []byte) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("UserUpdated")

	var msg UserUpdated
	if err := json.Unmarshal(in, &msg); err != nil {
		logger.Error(fmt.Sprintf("failed to unmarshal user update: %v", err))
		return nil
	}

	if _, err := uuid.Parse(msg.UserUUID); err != nil {
		logger.Warn(fmt.Sprintf("skipping user update with invalid uuid %q", msg.UserUUID))
		return nil
	}

	err := h.dbR.UpsertUser(ctx, &model.Participant{
		ID:        msg.UserUUID,
		Nickname:  msg.Nickname,
		AvatarURL: msg.AvatarLink,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to upsert user %s: %v", msg.UserUUID, err))
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}
