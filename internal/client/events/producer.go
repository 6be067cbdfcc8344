package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/model"
)

type ExchangeCompleted struct {
	HistoryID      string    `json:"history_id"`
	ConversationID string    `json:"conversation_id"`
	BookID         string    `json:"book_id"`
	ProposerID     string    `json:"proposer_id"`
	CounterpartID  string    `json:"counterpart_id"`
	Note           string    `json:"note"`
	CompletedAt    time.Time `json:"completed_at"`
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer writer
}

func New(cfg *config.Config) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)),
			Topic:                  cfg.Kafka.ExchangeTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}

// PublishExchangeCompleted keys events by book so consumers see one book's
// exchanges in order.
func (p *Producer) PublishExchangeCompleted(ctx context.Context, entry model.HistoryEntry) error {
	value, err := json.Marshal(ExchangeCompleted{
		HistoryID:      entry.ID,
		ConversationID: entry.ConversationID,
		BookID:         entry.BookID,
		ProposerID:     entry.UserID,
		CounterpartID:  entry.CounterpartID,
		Note:           entry.Note,
		CompletedAt:    entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal exchange event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.BookID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write exchange event: %w", err)
	}

	return nil
}
