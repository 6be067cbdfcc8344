package model

import "time"

type HistoryEntry struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	BookID         string    `db:"book_id" json:"book_id"`
	CounterpartID  string    `db:"counterpart_id" json:"counterpart_id"`
	Note           string    `db:"note" json:"note"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type HistoryKey struct {
	ConversationID string
	BookID         string
	CounterpartID  string
	Note           string
}

func (h HistoryEntry) Key() HistoryKey {
	return HistoryKey{
		ConversationID: h.ConversationID,
		BookID:         h.BookID,
		CounterpartID:  h.CounterpartID,
		Note:           h.Note,
	}
}
