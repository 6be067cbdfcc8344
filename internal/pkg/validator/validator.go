package validator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/s21platform/exchange-chat-service/pkg/api"
)

const (
	maxTextLength     = 500
	maxHistoryLimit   = 100
	maxBatchSubscribe = 50
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateCreateConversation(req *api.CreateConversationRequest, creatorID string) error {
	companionID := strings.TrimSpace(req.CompanionId)
	if companionID == "" {
		return fmt.Errorf("companion_id is required")
	}

	if _, err := uuid.Parse(companionID); err != nil {
		return fmt.Errorf("companion_id must be a valid UUID")
	}

	if companionID == creatorID {
		return fmt.Errorf("cannot start a conversation with yourself")
	}

	if req.BookId != nil && strings.TrimSpace(*req.BookId) == "" {
		return fmt.Errorf("book_id cannot be blank")
	}

	return nil
}

func (v *Validator) ValidateSendMessage(req *api.SendMessageRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if len([]rune(req.Text)) > maxTextLength {
		return fmt.Errorf("text exceeds maximum length of %d characters", maxTextLength)
	}

	// exchange messages go through the exchange request endpoints
	if req.Type != nil && *req.Type != api.MessageTypeText {
		return fmt.Errorf("message type '%s' is not supported here", *req.Type)
	}

	return nil
}

func (v *Validator) ValidateCreateExchangeRequest(req *api.CreateExchangeRequestRequest) error {
	if strings.TrimSpace(req.BookId) == "" {
		return fmt.Errorf("book_id is required")
	}

	if req.Note != nil && len([]rune(*req.Note)) > maxTextLength {
		return fmt.Errorf("note exceeds maximum length of %d characters", maxTextLength)
	}

	if req.BarterBookId != nil {
		barter := strings.TrimSpace(*req.BarterBookId)
		if barter == "" {
			return fmt.Errorf("barter_book_id cannot be blank")
		}
		if barter == req.BookId {
			return fmt.Errorf("barter_book_id must differ from book_id")
		}
	}

	return nil
}

func (v *Validator) ValidateHistoryParams(params *api.GetExchangeHistoryParams) error {
	if params.Limit == nil {
		return nil
	}

	if *params.Limit < 1 || *params.Limit > maxHistoryLimit {
		return fmt.Errorf("limit must be between 1 and %d", maxHistoryLimit)
	}

	return nil
}

func (v *Validator) ValidateBatchSubscribe(req *api.GetBatchSubscribeTokensRequest) error {
	if len(req.ConversationIds) == 0 {
		return fmt.Errorf("conversation_ids cannot be empty")
	}

	if len(req.ConversationIds) > maxBatchSubscribe {
		return fmt.Errorf("at most %d conversations can be subscribed at once", maxBatchSubscribe)
	}

	return nil
}
