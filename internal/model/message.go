package model

import (
	"errors"
	"fmt"
	"time"
)

type MessageType string

const (
	TextMessageType              MessageType = "text"
	ExchangeRequestMessageType   MessageType = "exchange_request"
	ExchangeCompletedMessageType MessageType = "exchange_completed"
)

func (t MessageType) Valid() bool {
	switch t {
	case TextMessageType, ExchangeRequestMessageType, ExchangeCompletedMessageType:
		return true
	}
	return false
}

type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "pending"
	ExchangeCompleted ExchangeStatus = "completed"
	ExchangeCancelled ExchangeStatus = "cancelled"
)

type ExchangeRequestKind string

const CompletionRequestKind ExchangeRequestKind = "completion_request"

var ErrInvalidTransition = errors.New("invalid exchange request transition")

type MessageList []Message

type Message struct {
	ID              string           `json:"id"`
	ConversationID  string           `json:"conversation_id"`
	SenderID        string           `json:"sender_id"`
	Type            MessageType      `json:"type"`
	Text            string           `json:"text"`
	BookID          *string          `json:"book_id,omitempty"`
	IsRead          bool             `json:"is_read"`
	ExchangeRequest *ExchangeRequest `json:"exchange_request,omitempty"`
	SentAt          time.Time        `json:"sent_at"`
}

// ExchangeRequest is carried inside its parent message. Book title and image are a
// snapshot taken when the request was made.
type ExchangeRequest struct {
	BookID       string              `json:"book_id" yaml:"book_id"`
	BookTitle    string              `json:"book_title" yaml:"book_title"`
	BookImage    string              `json:"book_image,omitempty" yaml:"book_image"`
	Status       ExchangeStatus      `json:"status" yaml:"status"`
	Kind         ExchangeRequestKind `json:"kind" yaml:"kind"`
	BarterBookID *string             `json:"barter_book_id,omitempty" yaml:"barter_book_id"`
}

// Transition moves a pending request to a terminal status.
func (r *ExchangeRequest) Transition(to ExchangeStatus) error {
	if r.Status != ExchangePending {
		return fmt.Errorf("%w: request is already %s", ErrInvalidTransition, r.Status)
	}
	if to != ExchangeCompleted && to != ExchangeCancelled {
		return fmt.Errorf("%w: cannot move to %q", ErrInvalidTransition, to)
	}
	r.Status = to
	return nil
}

func (r *ExchangeRequest) IsPending() bool {
	return r != nil && r.Status == ExchangePending
}

// Clone returns a deep copy so store readers never share payloads with writers.
func (m Message) Clone() Message {
	if m.BookID != nil {
		bookID := *m.BookID
		m.BookID = &bookID
	}
	if m.ExchangeRequest != nil {
		req := *m.ExchangeRequest
		if req.BarterBookID != nil {
			barter := *req.BarterBookID
			req.BarterBookID = &barter
		}
		m.ExchangeRequest = &req
	}
	return m
}
