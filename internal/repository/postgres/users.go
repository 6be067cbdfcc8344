package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

// UpsertUser stores the denormalized profile shown in thread listings. Empty
// fields keep the stored value.
func (r *Repository) UpsertUser(ctx context.Context, user *model.Participant) error {
	query, args, err := toSql(sq.Insert("users").
		Columns("id", "nickname", "avatar_url").
		Values(user.ID, user.Nickname, user.AvatarURL).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"nickname = COALESCE(NULLIF(EXCLUDED.nickname, ''), users.nickname), " +
			"avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), users.avatar_url)").
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return err
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %v", err)
	}

	return nil
}

// GetBook returns nil without an error when the book does not exist.
func (r *Repository) GetBook(ctx context.Context, bookID string) (*model.Book, error) {
	query, args, err := toSql(sq.Select("id", "owner_id", "title", "image_url", "archived").
		From("books").
		Where(sq.Eq{"id": bookID}).
		PlaceholderFormat(sq.Dollar))
	if err != nil {
		return nil, err
	}

	var book model.Book
	err = r.Chk(ctx).GetContext(ctx, &book, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %v", err)
	}

	return &book, nil
}
