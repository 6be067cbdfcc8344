package rest

import (
	"github.com/s21platform/exchange-chat-service/internal/model"
	"github.com/s21platform/exchange-chat-service/pkg/api"
)

// messageRenderer fills the type-dependent part of an API message.
type messageRenderer struct {
	out *api.Message
}

func (r messageRenderer) VisitPlainText(c model.PlainText) {
	r.out.Type = api.MessageTypeText
	r.out.Text = c.Text
}

func (r messageRenderer) VisitExchangeProposal(c model.ExchangeProposal) {
	r.out.Type = api.MessageTypeExchangeRequest
	r.out.Text = c.Note
	r.out.ExchangeRequest = exchangeRequestToAPI(c.Request)
}

func (r messageRenderer) VisitExchangeCompletion(c model.ExchangeCompletion) {
	r.out.Type = api.MessageTypeExchangeCompleted
	r.out.Text = c.Note
	r.out.ExchangeRequest = exchangeRequestToAPI(c.Request)
}

func messageToAPI(msg model.Message) api.Message {
	out := api.Message{
		Id:             msg.ID,
		ConversationId: msg.ConversationID,
		SenderId:       msg.SenderID,
		BookId:         msg.BookID,
		IsRead:         msg.IsRead,
		SentAt:         msg.SentAt,
	}
	msg.Content().Accept(messageRenderer{out: &out})
	return out
}

func exchangeRequestToAPI(req model.ExchangeRequest) *api.ExchangeRequest {
	return &api.ExchangeRequest{
		BookId:       req.BookID,
		BookTitle:    req.BookTitle,
		BookImage:    optional(req.BookImage),
		Status:       api.ExchangeRequestStatus(req.Status),
		Kind:         string(req.Kind),
		BarterBookId: req.BarterBookID,
	}
}

func threadToAPI(thread model.Thread) api.Thread {
	out := api.Thread{
		Id: thread.ID,
		Companion: api.Companion{
			Id:        thread.Companion.ID,
			Nickname:  thread.Companion.Nickname,
			AvatarUrl: optional(thread.Companion.AvatarURL),
		},
		LastMessage:          thread.LastMessage,
		LastMessageTimestamp: thread.LastMessageTimestamp,
		UnreadCount:          thread.UnreadCount,
	}
	if thread.Book != nil {
		out.Book = &api.BookContext{
			Id:       thread.Book.ID,
			Title:    thread.Book.Title,
			ImageUrl: optional(thread.Book.ImageURL),
		}
	}
	return out
}

func historyToAPI(entry model.HistoryEntry) api.HistoryEntry {
	return api.HistoryEntry{
		Id:             entry.ID,
		ConversationId: entry.ConversationID,
		BookId:         entry.BookID,
		CounterpartId:  entry.CounterpartID,
		Note:           entry.Note,
		CreatedAt:      entry.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
