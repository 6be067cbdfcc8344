package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

// History rows are unique on (conversation_id, book_id, counterpart_id, note),
// see migrations/0001_init.up.sql.
func appendHistoryQuery(entry *model.HistoryEntry) (string, []interface{}, error) {
	return toSql(sq.Insert("exchange_history").
		Columns("id", "user_id", "conversation_id", "book_id", "counterpart_id", "note", "created_at").
		Values(entry.ID, entry.UserID, entry.ConversationID, entry.BookID, entry.CounterpartID, entry.Note, entry.CreatedAt).
		Suffix("ON CONFLICT (conversation_id, book_id, counterpart_id, note) DO NOTHING").
		PlaceholderFormat(sq.Dollar))
}

// AppendHistory reports false when an identical entry already exists.
func (r *Repository) AppendHistory(ctx context.Context, entry *model.HistoryEntry) (bool, error) {
	query, args, err := appendHistoryQuery(entry)
	if err != nil {
		return false, err
	}

	res, err := r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to append exchange history: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %v", err)
	}

	return affected > 0, nil
}

func (r *Repository) GetHistory(ctx context.Context, userID string, limit uint64) ([]model.HistoryEntry, error) {
	queryBuilder := sq.Select("id", "user_id", "conversation_id", "book_id", "counterpart_id", "note", "created_at").
		From("exchange_history").
		Where(sq.Or{sq.Eq{"user_id": userID}, sq.Eq{"counterpart_id": userID}}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	} else {
		queryBuilder = queryBuilder.Limit(50)
	}

	query, args, err := toSql(queryBuilder)
	if err != nil {
		return nil, err
	}

	var entries []model.HistoryEntry
	err = r.Chk(ctx).SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange history: %v", err)
	}

	return entries, nil
}
