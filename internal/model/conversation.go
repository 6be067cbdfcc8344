package model

import "time"

type Conversation struct {
	ID        string    `db:"id"`
	UserA     string    `db:"user_a"`
	UserB     string    `db:"user_b"`
	BookID    *string   `db:"book_id"`
	CreatedAt time.Time `db:"created_at"`
}

// OrderedPair sorts two member ids so that a pair maps to a single conversation
// regardless of who started it.
func OrderedPair(first, second string) (string, string) {
	if second < first {
		return second, first
	}
	return first, second
}

func (c Conversation) HasMember(userID string) bool {
	return c.UserA == userID || c.UserB == userID
}

// Companion returns the other member, or an empty string when userID is not a member.
func (c Conversation) Companion(userID string) string {
	switch userID {
	case c.UserA:
		return c.UserB
	case c.UserB:
		return c.UserA
	}
	return ""
}
