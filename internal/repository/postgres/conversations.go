package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

func (r *Repository) IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error) {
	query, args, err := toSql(sq.
		Select("COUNT(*) > 0").
		From("conversations").
		Where(sq.Eq{"id": conversationID}).
		Where(sq.Or{sq.Eq{"user_a": userID}, sq.Eq{"user_b": userID}}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return false, err
	}

	var isMember bool
	err = r.Chk(ctx).GetContext(ctx, &isMember, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %v", err)
	}

	return isMember, nil
}

// GetConversation returns nil without an error when the conversation does not exist.
func (r *Repository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	query, args, err := toSql(sq.Select("id", "user_a", "user_b", "book_id", "created_at").
		From("conversations").
		Where(sq.Eq{"id": conversationID}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return nil, err
	}

	var conv model.Conversation
	err = r.Chk(ctx).GetContext(ctx, &conv, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %v", err)
	}

	return &conv, nil
}

func findOrCreateConversationQuery(id, userID, companionID string, bookID *string) (string, []interface{}, error) {
	userA, userB := model.OrderedPair(userID, companionID)

	return toSql(sq.Insert("conversations").
		Columns("id", "user_a", "user_b", "book_id", "created_at").
		Values(id, userA, userB, bookID, time.Now()).
		Suffix("ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a RETURNING id, user_a, user_b, book_id, created_at").
		PlaceholderFormat(sq.Dollar))
}

// FindOrCreateConversation returns the conversation of the unordered pair,
// creating it on first contact. An existing conversation keeps its book context.
func (r *Repository) FindOrCreateConversation(ctx context.Context, userID, companionID string, bookID *string) (*model.Conversation, error) {
	query, args, err := findOrCreateConversationQuery(uuid.New().String(), userID, companionID, bookID)
	if err != nil {
		return nil, err
	}

	var conv model.Conversation
	err = r.Chk(ctx).GetContext(ctx, &conv, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create conversation: %v", err)
	}

	return &conv, nil
}
