package engine

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xaenox/chatcore/internal/models"
)

// minWordLength is exclusive: only words longer than this are learned
const minWordLength = 3

// LearningStore accumulates words seen in messages nothing recognised.
// The set only grows and is safe for concurrent use.
type LearningStore struct {
	mu     sync.Mutex
	words  []string
	seen   map[string]struct{}
	common map[string]struct{}
	policy PersistPolicy
}

func NewLearningStore(kb *models.KnowledgeBase, policy PersistPolicy) *LearningStore {
	if policy == nil {
		policy = Never
	}

	l := &LearningStore{
		seen:   make(map[string]struct{}, len(kb.LearnedWords)),
		common: make(map[string]struct{}, len(kb.Greetings)+len(kb.Farewells)),
		policy: policy,
	}
	for _, w := range kb.Greetings {
		l.common[w] = struct{}{}
	}
	for _, w := range kb.Farewells {
		l.common[w] = struct{}{}
	}
	for _, w := range kb.LearnedWords {
		if _, dup := l.seen[w]; dup {
			continue
		}
		l.seen[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l
}

// Observe adds the novel words of text and reports how many were new and
// whether the persist policy asks for a snapshot write.
func (l *LearningStore) Observe(text string) (added int, persist bool) {
	tokens := strings.Fields(strings.ToLower(text))

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= minWordLength {
			continue
		}
		if _, ok := l.common[tok]; ok {
			continue
		}
		if _, ok := l.seen[tok]; ok {
			continue
		}
		l.seen[tok] = struct{}{}
		l.words = append(l.words, tok)
		added++
	}

	if added == 0 {
		return 0, false
	}
	return added, l.policy.ShouldPersist()
}

// Words returns the learned words in the order they were first seen
func (l *LearningStore) Words() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.words...)
}

func (l *LearningStore) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.words)
}
