package model

import (
	"time"
)

type ThreadList []Thread

type Participant struct {
	ID        string
	Nickname  string
	AvatarURL string
}

type BookContext struct {
	ID       string
	Title    string
	ImageURL string
}

type Thread struct {
	ID                   string
	Companion            Participant
	LastMessage          string
	LastMessageTimestamp *time.Time
	UnreadCount          int
	Book                 *BookContext
}

// UnreadCount counts unread messages written by anyone other than the viewer.
func UnreadCount(messages []Message, viewerID string) int {
	count := 0
	for _, m := range messages {
		if m.SenderID != viewerID && !m.IsRead {
			count++
		}
	}
	return count
}

// Summarize recomputes the preview fields of a thread from its ordered messages.
func Summarize(thread Thread, messages []Message, viewerID string) Thread {
	thread.UnreadCount = UnreadCount(messages, viewerID)
	if len(messages) == 0 {
		return thread
	}

	last := messages[len(messages)-1]
	sentAt := last.SentAt
	thread.LastMessage = Preview(last)
	thread.LastMessageTimestamp = &sentAt

	return thread
}
