//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/s21platform/exchange-chat-service/internal/model"
	"github.com/s21platform/exchange-chat-service/internal/service"
	"github.com/s21platform/exchange-chat-service/pkg/api"
)

type ChatService interface {
	GetThreads(ctx context.Context, userID string) (model.ThreadList, error)
	StartConversation(ctx context.Context, userID, companionID string, bookID *string) (*model.Conversation, error)
	GetMessages(ctx context.Context, conversationID, viewerID string) ([]model.Message, error)
	SendMessage(ctx context.Context, conversationID, senderID, text string, opts service.SendOptions) (model.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	CreateExchangeRequest(ctx context.Context, conversationID, proposerID string, params service.ExchangeRequestParams) (model.Message, error)
	CancelExchangeRequest(ctx context.Context, conversationID, messageID, viewerID string) (bool, error)
	ConfirmExchangeRequest(ctx context.Context, conversationID, messageID, viewerID string) (*model.HistoryEntry, error)
	GetHistory(ctx context.Context, userID string, limit uint64) ([]model.HistoryEntry, error)
	IsMember(ctx context.Context, conversationID, userID string) (bool, error)
}

type Validator interface {
	ValidateCreateConversation(req *api.CreateConversationRequest, creatorID string) error
	ValidateSendMessage(req *api.SendMessageRequest) error
	ValidateCreateExchangeRequest(req *api.CreateExchangeRequestRequest) error
	ValidateHistoryParams(params *api.GetExchangeHistoryParams) error
	ValidateBatchSubscribe(req *api.GetBatchSubscribeTokensRequest) error
}

type JWTGenerator interface {
	GenerateConnectToken(userID string) (string, int64, error)
	GenerateSubscribeToken(userID, conversationID, channel string) (string, int64, error)
}
