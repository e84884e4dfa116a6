package wizard

import (
	"context"
	"sync"
	"time"
)

// Store keeps wizards in memory and forgets them after ttl of inactivity.
type Store struct {
	mu      sync.RWMutex
	wizards map[string]*Wizard
	seen    map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		wizards: make(map[string]*Wizard),
		seen:    make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Put(w *Wizard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[w.ID] = w
	s.seen[w.ID] = s.now()
}

func (s *Store) Get(id string) (*Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wizards[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(s.seen[id]) > s.ttl {
		delete(s.wizards, id)
		delete(s.seen, id)
		return nil, false
	}
	s.seen[id] = now
	return w, true
}

// Has reports presence without refreshing the idle timer.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.wizards[id]
	return ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, id)
	delete(s.seen, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wizards)
}

// Sweep drops idle wizards and returns their ids, so callers can release their holds.
func (s *Store) Sweep() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []string
	for id, last := range s.seen {
		if now.Sub(last) > s.ttl {
			expired = append(expired, id)
			delete(s.wizards, id)
			delete(s.seen, id)
		}
	}
	return expired
}

func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onExpire func(wizardID string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range s.Sweep() {
				if onExpire != nil {
					onExpire(id)
				}
			}
		}
	}
}
