package engine

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xaenox/chatcore/internal/models"
)

type senderState struct {
	mu  sync.Mutex
	ctx models.UserContext
}

// ContextStore holds per-sender conversation state.
// At most maxSenders entries are kept (least recently used are dropped first)
// and entries idle for longer than ttl expire; zero disables either bound.
type ContextStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *senderState]
}

func NewContextStore(maxSenders int, ttl time.Duration) *ContextStore {
	if maxSenders < 0 {
		maxSenders = 0
	}
	return &ContextStore{
		cache: expirable.NewLRU[string, *senderState](maxSenders, nil, ttl),
	}
}

func (s *ContextStore) acquire(senderID string) *senderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.cache.Get(senderID); ok {
		return st
	}
	st := &senderState{ctx: models.NewUserContext()}
	s.cache.Add(senderID, st)
	return st
}

// With runs fn on the sender's context, creating it on first use.
// Calls for the same sender are serialized.
func (s *ContextStore) With(senderID string, fn func(uc *models.UserContext)) {
	st := s.acquire(senderID)
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.ctx)
}

// Get returns a copy of the sender's context
func (s *ContextStore) Get(senderID string) (models.UserContext, bool) {
	st, ok := s.cache.Peek(senderID)
	if !ok {
		return models.UserContext{}, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ctx, true
}

// Len is the number of senders currently tracked
func (s *ContextStore) Len() int {
	return s.cache.Len()
}
