// Package seed loads demo conversations that predate persisted chat history.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

type file struct {
	Conversations []model.LegacyConversation `yaml:"conversations"`
}

type Registry struct {
	conversations map[string]*model.LegacyConversation
}

func NewRegistry(conversations ...model.LegacyConversation) *Registry {
	r := &Registry{
		conversations: make(map[string]*model.LegacyConversation, len(conversations)),
	}
	for i := range conversations {
		conv := conversations[i]
		r.conversations[conv.ID] = &conv
	}
	return r
}

// Load reads the seed file. An empty path yields an empty registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, conv := range f.Conversations {
		if conv.ID == "" {
			return nil, fmt.Errorf("seed conversation #%d has no id", i)
		}
		for j, msg := range conv.Messages {
			if msg.ID == "" {
				return nil, fmt.Errorf("seed conversation %s: message #%d has no id", conv.ID, j)
			}
			if msg.Type != "" && !msg.Type.Valid() {
				return nil, fmt.Errorf("seed conversation %s: message %s has unknown type %q", conv.ID, msg.ID, msg.Type)
			}
		}
	}

	return NewRegistry(f.Conversations...), nil
}

func (r *Registry) Get(conversationID string) (*model.LegacyConversation, bool) {
	conv, ok := r.conversations[conversationID]
	return conv, ok
}

func (r *Registry) Len() int {
	return len(r.conversations)
}
