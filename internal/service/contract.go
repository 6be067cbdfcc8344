//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package service

import (
	"context"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

type DBRepo interface {
	IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error)
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	FindOrCreateConversation(ctx context.Context, userID, companionID string, bookID *string) (*model.Conversation, error)
	GetConversationMessages(ctx context.Context, conversationID string) (model.MessageList, error)
	GetMessage(ctx context.Context, conversationID, messageID string) (*model.Message, error)
	SaveMessage(ctx context.Context, message *model.Message) error
	DeletePendingRequest(ctx context.Context, conversationID, messageID string) (bool, error)
	UpdateExchangeStatus(ctx context.Context, messageID string, status model.ExchangeStatus) (bool, error)
	AppendHistory(ctx context.Context, entry *model.HistoryEntry) (bool, error)
	GetHistory(ctx context.Context, userID string, limit uint64) ([]model.HistoryEntry, error)
	GetThreads(ctx context.Context, userID string) (model.ThreadList, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	GetBook(ctx context.Context, bookID string) (*model.Book, error)

	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

type UnreadCache interface {
	GetUnreadCount(ctx context.Context, userID string) (int, bool, error)
	SetUnreadCount(ctx context.Context, userID string, count int) error
	InvalidateUnread(ctx context.Context, userID string) error
}

type Publisher interface {
	Publish(ctx context.Context, conversationID string, msg model.Message) error
}

type EventProducer interface {
	PublishExchangeCompleted(ctx context.Context, entry model.HistoryEntry) error
}

type SeedSource interface {
	Get(conversationID string) (*model.LegacyConversation, bool)
}
