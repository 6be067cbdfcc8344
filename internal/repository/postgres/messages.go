package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

var messageColumns = []string{
	"id",
	"conversation_id",
	"sender_id",
	"type",
	"content",
	"book_id",
	"is_read",
	"exchange_request",
	"sent_at",
}

type messageRow struct {
	ID              string         `db:"id"`
	ConversationID  string         `db:"conversation_id"`
	SenderID        string         `db:"sender_id"`
	Type            string         `db:"type"`
	Content         string         `db:"content"`
	BookID          sql.NullString `db:"book_id"`
	IsRead          bool           `db:"is_read"`
	ExchangeRequest []byte         `db:"exchange_request"`
	SentAt          time.Time      `db:"sent_at"`
}

func (row messageRow) toModel() (model.Message, error) {
	msg := model.Message{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		SenderID:       row.SenderID,
		Type:           model.MessageType(row.Type),
		Text:           row.Content,
		IsRead:         row.IsRead,
		SentAt:         row.SentAt,
	}

	if row.BookID.Valid {
		bookID := row.BookID.String
		msg.BookID = &bookID
	}

	req, err := decodeExchangeRequest(row.ExchangeRequest)
	if err != nil {
		return model.Message{}, fmt.Errorf("message %s: %v", row.ID, err)
	}
	msg.ExchangeRequest = req

	return msg, nil
}

func decodeExchangeRequest(raw []byte) (*model.ExchangeRequest, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var req model.ExchangeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to decode exchange request: %v", err)
	}
	return &req, nil
}

func encodeExchangeRequest(req *model.ExchangeRequest) (interface{}, error) {
	if req == nil {
		return nil, nil
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exchange request: %v", err)
	}
	return string(raw), nil
}

func (r *Repository) GetConversationMessages(ctx context.Context, conversationID string) (model.MessageList, error) {
	query, args, err := toSql(sq.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"conversation_id": conversationID}).
		OrderBy("sent_at ASC").
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return nil, err
	}

	var rows []messageRow
	err = r.Chk(ctx).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}

	messages := make(model.MessageList, 0, len(rows))
	for _, row := range rows {
		msg, err := row.toModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// GetMessage returns nil without an error when the message does not exist.
func (r *Repository) GetMessage(ctx context.Context, conversationID, messageID string) (*model.Message, error) {
	query, args, err := toSql(sq.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"conversation_id": conversationID, "id": messageID}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return nil, err
	}

	var row messageRow
	err = r.Chk(ctx).GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %v", err)
	}

	msg, err := row.toModel()
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

func saveMessageQuery(message *model.Message) (string, []interface{}, error) {
	exchange, err := encodeExchangeRequest(message.ExchangeRequest)
	if err != nil {
		return "", nil, err
	}

	return toSql(sq.Insert("messages").
		Columns(messageColumns...).
		Values(
			message.ID,
			message.ConversationID,
			message.SenderID,
			string(message.Type),
			message.Text,
			message.BookID,
			message.IsRead,
			exchange,
			message.SentAt,
		).
		PlaceholderFormat(sq.Dollar))
}

func (r *Repository) SaveMessage(ctx context.Context, message *model.Message) error {
	query, args, err := saveMessageQuery(message)
	if err != nil {
		return err
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}

	return nil
}

func deletePendingRequestQuery(conversationID, messageID string) (string, []interface{}, error) {
	return toSql(sq.Delete("messages").
		Where(sq.Eq{"conversation_id": conversationID, "id": messageID}).
		Where(sq.Expr("exchange_request->>'status' = ?", string(model.ExchangePending))).
		PlaceholderFormat(sq.Dollar))
}

// DeletePendingRequest removes an exchange request message that is still
// pending. It reports false when nothing was deleted.
func (r *Repository) DeletePendingRequest(ctx context.Context, conversationID, messageID string) (bool, error) {
	query, args, err := deletePendingRequestQuery(conversationID, messageID)
	if err != nil {
		return false, err
	}

	res, err := r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete exchange request: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %v", err)
	}

	return affected > 0, nil
}

func updateExchangeStatusQuery(messageID string, status model.ExchangeStatus) (string, []interface{}, error) {
	return toSql(sq.Update("messages").
		Set("exchange_request", sq.Expr("jsonb_set(exchange_request, '{status}', to_jsonb(?::text))", string(status))).
		Where(sq.Eq{"id": messageID}).
		Where(sq.Expr("exchange_request->>'status' = ?", string(model.ExchangePending))).
		PlaceholderFormat(sq.Dollar))
}

// UpdateExchangeStatus moves a pending request to status. It reports false when
// the request was no longer pending.
func (r *Repository) UpdateExchangeStatus(ctx context.Context, messageID string, status model.ExchangeStatus) (bool, error) {
	query, args, err := updateExchangeStatusQuery(messageID, status)
	if err != nil {
		return false, err
	}

	res, err := r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update exchange status: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %v", err)
	}

	return affected > 0, nil
}

func (r *Repository) MarkRead(ctx context.Context, conversationID, userID string) error {
	query, args, err := toSql(sq.Update("messages").
		Set("is_read", true).
		Where(sq.Eq{"conversation_id": conversationID, "is_read": false}).
		Where(sq.NotEq{"sender_id": userID}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return err
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark messages as read: %v", err)
	}

	return nil
}

func (r *Repository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	query, args, err := toSql(sq.Select("COUNT(*)").
		From("messages m").
		Join("conversations c ON c.id = m.conversation_id").
		Where(sq.Or{sq.Eq{"c.user_a": userID}, sq.Eq{"c.user_b": userID}}).
		Where(sq.NotEq{"m.sender_id": userID}).
		Where(sq.Eq{"m.is_read": false}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return 0, err
	}

	var count int
	err = r.Chk(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %v", err)
	}

	return count, nil
}
