package service

import (
	"context"
	"errors"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/model"
	"github.com/s21platform/exchange-chat-service/internal/pkg/tx"
)

type ExchangeRequestParams struct {
	BookID       string
	Note         string
	BarterBookID *string
}

// CreateExchangeRequest asks the companion to mark their book as exchanged.
// The book must belong to the companion and still be listed.
func (s *Service) CreateExchangeRequest(ctx context.Context, conversationID, proposerID string, params ExchangeRequestParams) (model.Message, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("CreateExchangeRequest")

	conv, err := s.memberConversation(ctx, conversationID, proposerID)
	if err != nil {
		return model.Message{}, err
	}
	owner := conv.Companion(proposerID)

	var msg model.Message
	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		book, err := s.repo.GetBook(ctx, params.BookID)
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}
		if book == nil {
			return ErrBookNotFound
		}
		if book.OwnerID != owner || book.Archived {
			return ErrBookUnavailable
		}

		bookID := book.ID
		msg = model.Message{
			ID:             s.newID(),
			ConversationID: conversationID,
			SenderID:       proposerID,
			Type:           model.ExchangeRequestMessageType,
			Text:           params.Note,
			BookID:         &bookID,
			ExchangeRequest: &model.ExchangeRequest{
				BookID:       book.ID,
				BookTitle:    book.Title,
				BookImage:    book.ImageURL,
				Status:       model.ExchangePending,
				Kind:         model.CompletionRequestKind,
				BarterBookID: params.BarterBookID,
			},
			SentAt: s.now().UTC(),
		}
		return s.repo.SaveMessage(ctx, &msg)
	})
	if err != nil {
		if errors.Is(err, ErrBookNotFound) || errors.Is(err, ErrBookUnavailable) {
			return model.Message{}, err
		}
		logger.Error(fmt.Sprintf("failed to create exchange request: %v", err))
		return model.Message{}, fmt.Errorf("failed to create exchange request: %w", err)
	}

	s.afterSend(ctx, conv, msg)
	s.metrics.ExchangeTransitions.WithLabelValues(string(model.ExchangePending)).Inc()

	return msg, nil
}

// CancelExchangeRequest withdraws a pending request. Only the proposer may
// cancel. The message is removed locally only after the backend deleted it.
// A missing message or payload is a no-op and reports applied=false.
func (s *Service) CancelExchangeRequest(ctx context.Context, conversationID, messageID, viewerID string) (bool, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("CancelExchangeRequest")

	msg, err := s.exchangeMessage(ctx, conversationID, messageID, viewerID)
	if err != nil || msg == nil {
		return false, err
	}

	if err := msg.ExchangeRequest.Transition(model.ExchangeCancelled); err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotPending, err)
	}
	if msg.SenderID != viewerID {
		return false, ErrNotProposer
	}

	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.DeletePendingRequest(ctx, conversationID, messageID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotPending
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotPending) {
			return false, err
		}
		logger.Error(fmt.Sprintf("failed to delete exchange request: %v", err))
		return false, fmt.Errorf("failed to delete exchange request: %w", err)
	}

	s.store.Remove(conversationID, messageID)
	s.metrics.ExchangeTransitions.WithLabelValues(string(model.ExchangeCancelled)).Inc()

	return true, nil
}

// ConfirmExchangeRequest completes a pending request on behalf of the book
// owner and records the exchange in the history log. A nil entry without an
// error means there was nothing to confirm.
func (s *Service) ConfirmExchangeRequest(ctx context.Context, conversationID, messageID, viewerID string) (*model.HistoryEntry, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("ConfirmExchangeRequest")

	msg, err := s.exchangeMessage(ctx, conversationID, messageID, viewerID)
	if err != nil || msg == nil {
		return nil, err
	}

	if err := msg.ExchangeRequest.Transition(model.ExchangeCompleted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPending, err)
	}
	if msg.SenderID == viewerID {
		return nil, ErrProposerCannotConfirm
	}

	entry := model.HistoryEntry{
		ID:             s.newID(),
		UserID:         msg.SenderID,
		ConversationID: conversationID,
		BookID:         msg.ExchangeRequest.BookID,
		CounterpartID:  viewerID,
		Note:           msg.Text,
		CreatedAt:      s.now().UTC(),
	}

	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		updated, err := s.repo.UpdateExchangeStatus(ctx, messageID, model.ExchangeCompleted)
		if err != nil {
			return fmt.Errorf("failed to update exchange status: %w", err)
		}
		if !updated {
			return ErrNotPending
		}

		inserted, err := s.repo.AppendHistory(ctx, &entry)
		if err != nil {
			return fmt.Errorf("failed to append exchange history: %w", err)
		}
		if !inserted {
			logger.Info(fmt.Sprintf("exchange history for message %s already recorded", messageID))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotPending) {
			return nil, err
		}
		logger.Error(fmt.Sprintf("failed to confirm exchange request: %v", err))
		return nil, fmt.Errorf("failed to confirm exchange request: %w", err)
	}

	s.store.Update(conversationID, messageID, func(m *model.Message) {
		if m.ExchangeRequest != nil {
			m.ExchangeRequest.Status = model.ExchangeCompleted
		}
	})
	s.metrics.ExchangeTransitions.WithLabelValues(string(model.ExchangeCompleted)).Inc()

	if err := s.events.PublishExchangeCompleted(ctx, entry); err != nil {
		logger.Error(fmt.Sprintf("failed to publish exchange completed event: %v", err))
	}
	if err := s.publisher.Publish(ctx, conversationID, *msg); err != nil {
		logger.Error(fmt.Sprintf("failed to publish exchange status: %v", err))
	}

	return &entry, nil
}

// exchangeMessage loads a persisted exchange request. It returns nil without
// an error when the message or its payload is missing.
func (s *Service) exchangeMessage(ctx context.Context, conversationID, messageID, viewerID string) (*model.Message, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)

	if err := s.checkMember(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}

	msg, err := s.repo.GetMessage(ctx, conversationID, messageID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get message: %v", err))
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil || msg.ExchangeRequest == nil {
		logger.Info(fmt.Sprintf("no exchange request %s in conversation %s", messageID, conversationID))
		return nil, nil
	}

	return msg, nil
}
