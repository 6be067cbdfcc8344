// Package api holds the HTTP contract of the chat service described in
// api/openapi.yaml. It is shared by the server and pkg/client.
package api

import "time"

type MessageType string

const (
	MessageTypeText              MessageType = "text"
	MessageTypeExchangeRequest   MessageType = "exchange_request"
	MessageTypeExchangeCompleted MessageType = "exchange_completed"
)

type ExchangeRequestStatus string

const (
	ExchangeRequestStatusPending   ExchangeRequestStatus = "pending"
	ExchangeRequestStatusCompleted ExchangeRequestStatus = "completed"
	ExchangeRequestStatusCancelled ExchangeRequestStatus = "cancelled"
)

type Error struct {
	Error string `json:"error"`
}

type Companion struct {
	Id        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	AvatarUrl *string `json:"avatar_url,omitempty"`
}

type BookContext struct {
	Id       string  `json:"id"`
	Title    string  `json:"title"`
	ImageUrl *string `json:"image_url,omitempty"`
}

type Thread struct {
	Id                   string       `json:"id"`
	Companion            Companion    `json:"companion"`
	LastMessage          string       `json:"last_message"`
	LastMessageTimestamp *time.Time   `json:"last_message_timestamp,omitempty"`
	UnreadCount          int          `json:"unread_count"`
	Book                 *BookContext `json:"book,omitempty"`
}

type GetThreadsResponse struct {
	Threads []Thread `json:"threads"`
}

type CreateConversationRequest struct {
	CompanionId string  `json:"companion_id"`
	BookId      *string `json:"book_id,omitempty"`
}

type Conversation struct {
	Id          string    `json:"id"`
	CompanionId string    `json:"companion_id"`
	BookId      *string   `json:"book_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExchangeRequest struct {
	BookId       string                `json:"book_id"`
	BookTitle    string                `json:"book_title"`
	BookImage    *string               `json:"book_image,omitempty"`
	Status       ExchangeRequestStatus `json:"status"`
	Kind         string                `json:"kind"`
	BarterBookId *string               `json:"barter_book_id,omitempty"`
}

type Message struct {
	Id              string           `json:"id"`
	ConversationId  string           `json:"conversation_id"`
	SenderId        string           `json:"sender_id"`
	Type            MessageType      `json:"type"`
	Text            string           `json:"text"`
	BookId          *string          `json:"book_id,omitempty"`
	IsRead          bool             `json:"is_read"`
	ExchangeRequest *ExchangeRequest `json:"exchange_request,omitempty"`
	SentAt          time.Time        `json:"sent_at"`
}

type GetMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	Text   string       `json:"text"`
	Type   *MessageType `json:"type,omitempty"`
	BookId *string      `json:"book_id,omitempty"`
}

type GetUnreadCountResponse struct {
	Count int `json:"count"`
}

type CreateExchangeRequestRequest struct {
	BookId       string  `json:"book_id"`
	Note         *string `json:"note,omitempty"`
	BarterBookId *string `json:"barter_book_id,omitempty"`
}

type CancelExchangeRequestResponse struct {
	Applied bool `json:"applied"`
}

type HistoryEntry struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	BookId         string    `json:"book_id"`
	CounterpartId  string    `json:"counterpart_id"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConfirmExchangeRequestResponse struct {
	Applied bool          `json:"applied"`
	Entry   *HistoryEntry `json:"entry,omitempty"`
}

type GetExchangeHistoryParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

type GetExchangeHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type GetConnectTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetSubscribeTokenResponse struct {
	Token     string `json:"token"`
	Channel   string `json:"channel"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetBatchSubscribeTokensRequest struct {
	ConversationIds []string `json:"conversation_ids"`
}

type ConversationSubscription struct {
	ConversationId string `json:"conversation_id"`
	Token          string `json:"token"`
	Channel        string `json:"channel"`
	ExpiresAt      int64  `json:"expires_at"`
}

type GetBatchSubscribeTokensResponse struct {
	Subscriptions []ConversationSubscription `json:"subscriptions"`
}
