// Package chatsync reconciles legacy seed conversations with persisted messages.
package chatsync

import (
	"sort"
	"time"

	"github.com/s21platform/exchange-chat-service/internal/model"
	"github.com/s21platform/exchange-chat-service/internal/pkg/legacytime"
)

// ConvertLegacy maps seed messages onto the canonical message shape.
func ConvertLegacy(seed *model.LegacyConversation, currentUserID string, now time.Time) []model.Message {
	if seed == nil {
		return nil
	}

	self := currentUserID
	if self == "" {
		self = model.DefaultUserPlaceholder
	}

	messages := make([]model.Message, 0, len(seed.Messages))
	for i, lm := range seed.Messages {
		senderID := lm.SenderID
		if senderID == model.LegacySelfSenderID {
			senderID = self
		}

		msgType := lm.Type
		if msgType == "" {
			msgType = model.TextMessageType
		}

		msg := model.Message{
			ID:             lm.ID,
			ConversationID: seed.ID,
			SenderID:       senderID,
			Type:           msgType,
			Text:           lm.Text,
			IsRead:         lm.IsRead,
			SentAt:         legacytime.Parse(lm.Timestamp, now),
		}

		if lm.ExchangeRequest != nil {
			req := *lm.ExchangeRequest
			msg.ExchangeRequest = &req
		}

		switch {
		case i == 0 && seed.BookID != "":
			bookID := seed.BookID
			msg.BookID = &bookID
		case msg.ExchangeRequest != nil && msg.ExchangeRequest.BookID != "":
			bookID := msg.ExchangeRequest.BookID
			msg.BookID = &bookID
		}

		messages = append(messages, msg)
	}

	return messages
}

// Merge produces the ordered, duplicate-free message list for a conversation.
// Without a seed the remote messages are authoritative. With a seed, remote
// messages unknown to it are appended as additions and the result is sorted by
// SentAt; equal timestamps keep seed messages ahead of additions.
// The second return value is the number of additions.
func Merge(seed *model.LegacyConversation, remote []model.Message, currentUserID string, now time.Time) ([]model.Message, int) {
	if seed == nil {
		merged := dedupe(remote)
		sortByTime(merged)
		return merged, 0
	}

	legacy := dedupe(ConvertLegacy(seed, currentUserID, now))

	legacyIDs := make(map[string]struct{}, len(legacy))
	for _, m := range legacy {
		legacyIDs[m.ID] = struct{}{}
	}

	var additions []model.Message
	for _, m := range remote {
		if _, ok := legacyIDs[m.ID]; ok {
			continue
		}
		additions = append(additions, m)
	}
	additions = dedupe(additions)

	merged := make([]model.Message, 0, len(legacy)+len(additions))
	merged = append(merged, legacy...)
	merged = append(merged, additions...)
	sortByTime(merged)

	return merged, len(additions)
}

// KeepReadState marks messages read when the previous view already had them
// read. Read state only moves forward, so a fixture flag never resurrects an
// unread message.
func KeepReadState(previous, merged []model.Message) []model.Message {
	read := make(map[string]struct{}, len(previous))
	for _, m := range previous {
		if m.IsRead {
			read[m.ID] = struct{}{}
		}
	}
	for i := range merged {
		if _, ok := read[merged[i].ID]; ok {
			merged[i].IsRead = true
		}
	}
	return merged
}

func dedupe(messages []model.Message) []model.Message {
	seen := make(map[string]struct{}, len(messages))
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m.Clone())
	}
	return out
}

func sortByTime(messages []model.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})
}
