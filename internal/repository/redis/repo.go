package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/s21platform/exchange-chat-service/internal/config"
)

const unreadKeyPrefix = "chat:unread:"

type Repository struct {
	conn *redis.Client
	ttl  time.Duration
}

func New(cfg *config.Config) *Repository {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to ping redis: %v", err)
	}

	return NewWithClient(client, cfg.Redis.UnreadTTL)
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{
		conn: client,
		ttl:  ttl,
	}
}

func (r *Repository) Close() {
	_ = r.conn.Close()
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

// GetUnreadCount reports false on a cache miss.
func (r *Repository) GetUnreadCount(ctx context.Context, userID string) (int, bool, error) {
	val, err := r.conn.Get(ctx, unreadKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get unread count: %v", err)
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached unread count: %v", err)
	}

	return count, true, nil
}

func (r *Repository) SetUnreadCount(ctx context.Context, userID string, count int) error {
	if err := r.conn.Set(ctx, unreadKey(userID), count, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set unread count: %v", err)
	}
	return nil
}

func (r *Repository) InvalidateUnread(ctx context.Context, userID string) error {
	if err := r.conn.Del(ctx, unreadKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate unread count: %v", err)
	}
	return nil
}
