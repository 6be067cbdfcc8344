package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

type threadRow struct {
	ID                  string         `db:"id"`
	CompanionID         string         `db:"companion_id"`
	CompanionNickname   sql.NullString `db:"companion_nickname"`
	CompanionAvatarURL  sql.NullString `db:"companion_avatar_url"`
	BookID              sql.NullString `db:"book_id"`
	BookTitle           sql.NullString `db:"book_title"`
	BookImageURL        sql.NullString `db:"book_image_url"`
	LastMessageType     sql.NullString `db:"last_message_type"`
	LastMessageContent  sql.NullString `db:"last_message_content"`
	LastMessageExchange []byte         `db:"last_message_exchange"`
	LastMessageAt       *time.Time     `db:"last_message_at"`
	UnreadCount         int            `db:"unread_count"`
}

func (row threadRow) toModel() (model.Thread, error) {
	thread := model.Thread{
		ID: row.ID,
		Companion: model.Participant{
			ID:        row.CompanionID,
			Nickname:  row.CompanionNickname.String,
			AvatarURL: row.CompanionAvatarURL.String,
		},
		UnreadCount: row.UnreadCount,
	}

	if row.BookID.Valid {
		thread.Book = &model.BookContext{
			ID:       row.BookID.String,
			Title:    row.BookTitle.String,
			ImageURL: row.BookImageURL.String,
		}
	}

	if row.LastMessageAt != nil {
		req, err := decodeExchangeRequest(row.LastMessageExchange)
		if err != nil {
			return model.Thread{}, fmt.Errorf("thread %s: %v", row.ID, err)
		}

		thread.LastMessage = model.Preview(model.Message{
			Type:            model.MessageType(row.LastMessageType.String),
			Text:            row.LastMessageContent.String,
			ExchangeRequest: req,
		})
		thread.LastMessageTimestamp = row.LastMessageAt
	}

	return thread, nil
}

const companionExpr = "CASE WHEN c.user_a = ? THEN c.user_b ELSE c.user_a END"

func threadsQuery(userID string) (string, []interface{}, error) {
	lastMessage := "LEFT JOIN LATERAL (" +
		"SELECT lm.type, lm.content, lm.exchange_request, lm.sent_at FROM messages lm " +
		"WHERE lm.conversation_id = c.id ORDER BY lm.sent_at DESC LIMIT 1" +
		") last ON true"

	return toSql(sq.Select("c.id").
		Column(sq.Expr(companionExpr+" AS companion_id", userID)).
		Columns(
			"u.nickname AS companion_nickname",
			"u.avatar_url AS companion_avatar_url",
			"b.id AS book_id",
			"b.title AS book_title",
			"b.image_url AS book_image_url",
			"last.type AS last_message_type",
			"last.content AS last_message_content",
			"last.exchange_request AS last_message_exchange",
			"last.sent_at AS last_message_at",
		).
		Column(sq.Expr("(SELECT COUNT(*) FROM messages um WHERE um.conversation_id = c.id AND um.sender_id <> ? AND NOT um.is_read) AS unread_count", userID)).
		From("conversations c").
		LeftJoin("users u ON u.id = "+companionExpr, userID).
		LeftJoin("books b ON b.id = c.book_id").
		JoinClause(lastMessage).
		Where(sq.Or{sq.Eq{"c.user_a": userID}, sq.Eq{"c.user_b": userID}}).
		OrderBy("last.sent_at DESC NULLS LAST", "c.created_at DESC").
		PlaceholderFormat(sq.Dollar))
}

func (r *Repository) GetThreads(ctx context.Context, userID string) (model.ThreadList, error) {
	query, args, err := threadsQuery(userID)
	if err != nil {
		return nil, err
	}

	var rows []threadRow
	err = r.Chk(ctx).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get threads: %v", err)
	}

	threads := make(model.ThreadList, 0, len(rows))
	for _, row := range rows {
		thread, err := row.toModel()
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}

	return threads, nil
}
