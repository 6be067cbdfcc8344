package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/exchange-chat-service/internal/chatsync"
	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/model"
	"github.com/s21platform/exchange-chat-service/internal/pkg/metrics"
	"github.com/s21platform/exchange-chat-service/internal/pkg/tx"
	"github.com/s21platform/exchange-chat-service/internal/store"
)

const defaultHistoryLimit = 50

type Service struct {
	repo      DBRepo
	store     *store.Store
	seeds     SeedSource
	publisher Publisher
	events    EventProducer
	unread    UnreadCache
	metrics   *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func New(
	repo DBRepo,
	st *store.Store,
	seeds SeedSource,
	publisher Publisher,
	events EventProducer,
	unread UnreadCache,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		store:     st,
		seeds:     seeds,
		publisher: publisher,
		events:    events,
		unread:    unread,
		metrics:   m,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

type SendOptions struct {
	Type   model.MessageType
	BookID *string
}

// GetMessages reconciles the conversation and returns the local view of it.
// The store is left untouched when the remote fetch fails.
func (s *Service) GetMessages(ctx context.Context, conversationID, viewerID string) ([]model.Message, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("GetMessages")

	if err := s.checkMember(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}

	remote, err := s.repo.GetConversationMessages(ctx, conversationID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get conversation messages: %v", err))
		return nil, fmt.Errorf("failed to get conversation messages: %w", err)
	}

	seed, seeded := s.seeds.Get(conversationID)

	view := viewOf(seeded, viewerID)

	merged, additions := chatsync.Merge(seed, remote, viewerID, s.now())
	if seeded {
		merged = chatsync.KeepReadState(s.store.Messages(conversationID, view), merged)
		s.metrics.ReconcileRuns.Inc()
		s.metrics.ReconcileAdditions.Add(float64(additions))
		logger.Info(fmt.Sprintf("reconciled seed conversation %s with %d remote messages", conversationID, additions))
	}

	s.store.Replace(conversationID, view, merged)

	return s.store.Messages(conversationID, view), nil
}

// viewOf picks the store view of a conversation. Seeded conversations depend on
// who is viewing them.
func viewOf(seeded bool, viewerID string) string {
	if seeded {
		return viewerID
	}
	return store.SharedView
}

func (s *Service) SendMessage(ctx context.Context, conversationID, senderID, text string, opts SendOptions) (model.Message, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("SendMessage")

	conv, err := s.memberConversation(ctx, conversationID, senderID)
	if err != nil {
		return model.Message{}, err
	}

	msgType := opts.Type
	if msgType == "" {
		msgType = model.TextMessageType
	}

	msg := model.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           msgType,
		Text:           text,
		BookID:         opts.BookID,
		SentAt:         s.now().UTC(),
	}

	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		return s.repo.SaveMessage(ctx, &msg)
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to save message: %v", err))
		return model.Message{}, fmt.Errorf("failed to save message: %w", err)
	}

	s.afterSend(ctx, conv, msg)

	return msg, nil
}

// afterSend runs the best effort side effects of a persisted message.
func (s *Service) afterSend(ctx context.Context, conv *model.Conversation, msg model.Message) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)

	if s.store.Has(conv.ID) {
		s.store.Add(conv.ID, msg)
	}

	if err := s.publisher.Publish(ctx, conv.ID, msg); err != nil {
		logger.Error(fmt.Sprintf("failed to publish message %s: %v", msg.ID, err))
	}

	if err := s.unread.InvalidateUnread(ctx, conv.Companion(msg.SenderID)); err != nil {
		logger.Warn(fmt.Sprintf("failed to invalidate unread counter: %v", err))
	}

	s.metrics.MessagesSent.Inc()
}

// GetThreads lists the user's conversations. Seeded conversations the user
// already reconciled are summarized from that user's view in the store.
func (s *Service) GetThreads(ctx context.Context, userID string) (model.ThreadList, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("GetThreads")

	threads, err := s.repo.GetThreads(ctx, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get threads: %v", err))
		return nil, fmt.Errorf("failed to get threads: %w", err)
	}

	for i, thread := range threads {
		if _, ok := s.seeds.Get(thread.ID); !ok || !s.store.HasView(thread.ID, userID) {
			continue
		}
		threads[i] = model.Summarize(thread, s.store.Messages(thread.ID, userID), userID)
	}

	return threads, nil
}

func (s *Service) MarkRead(ctx context.Context, conversationID, userID string) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("MarkRead")

	if err := s.checkMember(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.repo.MarkRead(ctx, conversationID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to mark conversation as read: %v", err))
		return fmt.Errorf("failed to mark conversation as read: %w", err)
	}

	s.store.UpdateAll(conversationID, func(m *model.Message) {
		if m.SenderID != userID {
			m.IsRead = true
		}
	})

	if err := s.unread.InvalidateUnread(ctx, userID); err != nil {
		logger.Warn(fmt.Sprintf("failed to invalidate unread counter: %v", err))
	}

	return nil
}

func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("GetUnreadCount")

	count, ok, err := s.unread.GetUnreadCount(ctx, userID)
	if err != nil {
		logger.Warn(fmt.Sprintf("failed to read unread counter from cache: %v", err))
	} else if ok {
		s.metrics.UnreadCacheHits.WithLabelValues("hit").Inc()
		return count, nil
	}
	s.metrics.UnreadCacheHits.WithLabelValues("miss").Inc()

	count, err = s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get unread count: %v", err))
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	if err := s.unread.SetUnreadCount(ctx, userID, count); err != nil {
		logger.Warn(fmt.Sprintf("failed to cache unread counter: %v", err))
	}

	return count, nil
}

func (s *Service) StartConversation(ctx context.Context, userID, companionID string, bookID *string) (*model.Conversation, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("StartConversation")

	if userID == companionID {
		return nil, ErrSelfConversation
	}

	var conv *model.Conversation
	err := tx.TxExecute(ctx, func(ctx context.Context) error {
		var err error
		conv, err = s.repo.FindOrCreateConversation(ctx, userID, companionID, bookID)
		return err
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to find or create conversation: %v", err))
		return nil, fmt.Errorf("failed to find or create conversation: %w", err)
	}

	return conv, nil
}

func (s *Service) GetHistory(ctx context.Context, userID string, limit uint64) ([]model.HistoryEntry, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("GetHistory")

	if limit == 0 {
		limit = defaultHistoryLimit
	}

	entries, err := s.repo.GetHistory(ctx, userID, limit)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get exchange history: %v", err))
		return nil, fmt.Errorf("failed to get exchange history: %w", err)
	}

	return entries, nil
}

func (s *Service) IsMember(ctx context.Context, conversationID, userID string) (bool, error) {
	isMember, err := s.repo.IsConversationMember(ctx, conversationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %w", err)
	}
	return isMember, nil
}

func (s *Service) checkMember(ctx context.Context, conversationID, userID string) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)

	isMember, err := s.repo.IsConversationMember(ctx, conversationID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check conversation membership: %v", err))
		return fmt.Errorf("failed to check conversation membership: %w", err)
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

func (s *Service) memberConversation(ctx context.Context, conversationID, userID string) (*model.Conversation, error) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)

	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get conversation: %v", err))
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasMember(userID) {
		return nil, ErrNotMember
	}
	return conv, nil
}
