// Package store keeps the in-process view of conversation messages.
package store

import (
	"sync"

	"github.com/s21platform/exchange-chat-service/internal/model"
)

// SharedView holds conversations whose content does not depend on the viewer.
// Seeded conversations map the legacy self sender onto the viewer, so each
// viewer gets a view of its own.
const SharedView = ""

// Store is safe for concurrent use. One instance is built by the service shell
// and shared by every request.
type Store struct {
	mu    sync.RWMutex
	views map[string]map[string][]model.Message
}

func New() *Store {
	return &Store{
		views: make(map[string]map[string][]model.Message),
	}
}

func (s *Store) Messages(conversationID, viewerID string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.views[conversationID][viewerID])
}

// Has reports whether any view of the conversation has been loaded.
func (s *Store) Has(conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.views[conversationID]) > 0
}

func (s *Store) HasView(conversationID, viewerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.views[conversationID][viewerID]
	return ok
}

// Add appends the message to every loaded view of the conversation, or to a
// new shared view when none is loaded yet.
func (s *Store) Add(conversationID string, message model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.views[conversationID]
	if !ok || len(conv) == 0 {
		s.views[conversationID] = map[string][]model.Message{SharedView: {message.Clone()}}
		return
	}
	for viewer, list := range conv {
		conv[viewer] = append(list, message.Clone())
	}
}

// Clear drops every view of the conversation.
func (s *Store) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.views, conversationID)
}

// Replace swaps one view in one step, readers never see it empty.
func (s *Store) Replace(conversationID, viewerID string, messages []model.Message) {
	fresh := cloneAll(messages)
	if fresh == nil {
		fresh = []model.Message{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.views[conversationID]
	if !ok {
		conv = make(map[string][]model.Message)
		s.views[conversationID] = conv
	}
	conv[viewerID] = fresh
}

// Update applies fn to the message in every view. It reports whether the
// message was found in any of them.
func (s *Store) Update(conversationID, messageID string, fn func(m *model.Message)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, list := range s.views[conversationID] {
		for i := range list {
			if list[i].ID == messageID {
				fn(&list[i])
				found = true
				break
			}
		}
	}
	return found
}

// UpdateAll applies fn to every message in every view of the conversation.
func (s *Store) UpdateAll(conversationID string, fn func(m *model.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range s.views[conversationID] {
		for i := range list {
			fn(&list[i])
		}
	}
}

func (s *Store) Remove(conversationID, messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.views[conversationID]
	found := false
	for viewer, list := range conv {
		for i := range list {
			if list[i].ID == messageID {
				conv[viewer] = append(list[:i:i], list[i+1:]...)
				found = true
				break
			}
		}
	}
	return found
}

func cloneAll(messages []model.Message) []model.Message {
	if messages == nil {
		return nil
	}
	out := make([]model.Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}
