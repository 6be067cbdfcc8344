package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/s21platform/exchange-chat-service/pkg/api"
)

const DefaultPollInterval = 5 * time.Second

type ThreadFetcher interface {
	FetchThreads(ctx context.Context) ([]api.Thread, error)
}

// ThreadPoller keeps a thread list fresh by polling while preserving local
// optimistic updates that the server has not caught up with yet.
type ThreadPoller struct {
	fetcher  ThreadFetcher
	interval time.Duration

	mu      sync.RWMutex
	threads []api.Thread
	lastErr error
}

func NewThreadPoller(fetcher ThreadFetcher, interval time.Duration) *ThreadPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &ThreadPoller{
		fetcher:  fetcher,
		interval: interval,
	}
}

// Run polls immediately and then on every tick until ctx is done. Failed
// polls keep the previous list.
func (p *ThreadPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_ = p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = p.Poll(ctx)
		}
	}
}

func (p *ThreadPoller) Poll(ctx context.Context) error {
	polled, err := p.fetcher.FetchThreads(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastErr = err
	if err != nil {
		return err
	}
	p.threads = MergeThreads(p.threads, polled)
	return nil
}

// ApplyLocal records an optimistic change, e.g. right after sending a message.
func (p *ThreadPoller) ApplyLocal(thread api.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.threads = MergeThreads([]api.Thread{thread}, p.threads)
}

func (p *ThreadPoller) Threads() []api.Thread {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]api.Thread, len(p.threads))
	copy(out, p.threads)
	return out
}

func (p *ThreadPoller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.lastErr
}

// MergeThreads combines two thread lists by id. The entry with the newer last
// message wins and ties go to polled. Threads known only locally are kept.
// The result is ordered newest first.
func MergeThreads(local, polled []api.Thread) []api.Thread {
	byID := make(map[string]api.Thread, len(local)+len(polled))
	order := make([]string, 0, len(local)+len(polled))

	for _, thread := range local {
		if _, ok := byID[thread.Id]; !ok {
			order = append(order, thread.Id)
		}
		byID[thread.Id] = thread
	}
	for _, thread := range polled {
		current, ok := byID[thread.Id]
		if !ok {
			order = append(order, thread.Id)
			byID[thread.Id] = thread
			continue
		}
		if !newer(current.LastMessageTimestamp, thread.LastMessageTimestamp) {
			byID[thread.Id] = thread
		}
	}

	merged := make([]api.Thread, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return newer(merged[i].LastMessageTimestamp, merged[j].LastMessageTimestamp)
	})
	return merged
}

// newer reports whether a is strictly later than b. A missing timestamp is
// older than any present one.
func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
