// Package knowledge loads and saves the knowledge base and auto-reply snapshots.
// Loading never fails: anything missing or unreadable is replaced by the built-in tables.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xaenox/chatcore/internal/models"
	"github.com/xaenox/chatcore/internal/storage"
	"go.uber.org/zap"
)

type Loader struct {
	store     storage.Storage
	logger    *zap.Logger
	now       func() time.Time
	suppliers map[string]func() string
}

func NewLoader(store storage.Storage, logger *zap.Logger) *Loader {
	return NewLoaderWithClock(store, logger, time.Now)
}

// NewLoaderWithClock is NewLoader with the clock used by the computed answers
func NewLoaderWithClock(store storage.Storage, logger *zap.Logger, now func() time.Time) *Loader {
	return &Loader{
		store:     store,
		logger:    logger,
		now:       now,
		suppliers: Suppliers(now),
	}
}

// LoadKnowledge reads the knowledge snapshot stored under key
func (l *Loader) LoadKnowledge(ctx context.Context, key string) *models.KnowledgeBase {
	data, err := l.store.Load(ctx, key)
	if err != nil {
		l.logLoadFailure("knowledge", key, err)
		return DefaultKnowledgeBase(l.now)
	}

	var kb models.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		l.logger.Error("Failed to parse knowledge snapshot, using defaults",
			zap.Error(err),
			zap.String("key", key))
		return DefaultKnowledgeBase(l.now)
	}

	if err := l.resolve(&kb); err != nil {
		l.logger.Error("Invalid knowledge snapshot, using defaults",
			zap.Error(err),
			zap.String("key", key))
		return DefaultKnowledgeBase(l.now)
	}

	l.logger.Info("Loaded knowledge snapshot",
		zap.String("key", key),
		zap.Int("patterns", len(kb.Patterns)),
		zap.Int("questions", len(kb.Questions)),
		zap.Int("learned_words", len(kb.LearnedWords)))

	return &kb
}

// resolve binds computed answers to their suppliers and fills absent sections
func (l *Loader) resolve(kb *models.KnowledgeBase) error {
	defaults := DefaultKnowledgeBase(l.now)

	for i, entry := range kb.Questions {
		if entry.Answer.Kind != models.AnswerComputed {
			continue
		}
		fn, ok := l.suppliers[entry.Answer.Name]
		if !ok {
			return fmt.Errorf("question %q: unknown computed answer %q", entry.Question, entry.Answer.Name)
		}
		kb.Questions[i].Answer.Supply = fn
	}

	if kb.Greetings == nil {
		kb.Greetings = defaults.Greetings
	}
	if kb.Farewells == nil {
		kb.Farewells = defaults.Farewells
	}
	if kb.Questions == nil {
		kb.Questions = defaults.Questions
	}
	if kb.Responses == nil {
		kb.Responses = defaults.Responses
	}
	if kb.Patterns == nil {
		kb.Patterns = defaults.Patterns
	}
	if kb.LearnedWords == nil {
		kb.LearnedWords = []string{}
	}
	return nil
}

// SaveKnowledge overwrites the knowledge snapshot. Failures are logged, not returned.
func (l *Loader) SaveKnowledge(ctx context.Context, key string, kb *models.KnowledgeBase) {
	l.save(ctx, "knowledge", key, kb)
}

// LoadAutoReplies reads the auto-reply snapshot stored under key
func (l *Loader) LoadAutoReplies(ctx context.Context, key string) *models.AutoReplyRules {
	data, err := l.store.Load(ctx, key)
	if err != nil {
		l.logLoadFailure("auto-reply", key, err)
		return DefaultAutoReplyRules()
	}

	var rules models.AutoReplyRules
	if err := json.Unmarshal(data, &rules); err != nil {
		l.logger.Error("Failed to parse auto-reply snapshot, using defaults",
			zap.Error(err),
			zap.String("key", key))
		return DefaultAutoReplyRules()
	}

	if rules.GroupRules == nil {
		rules.GroupRules = DefaultAutoReplyRules().GroupRules
	}

	l.logger.Info("Loaded auto-reply snapshot",
		zap.String("key", key),
		zap.Int("keywords", len(rules.Keywords)))

	return &rules
}

// SaveAutoReplies overwrites the auto-reply snapshot. Failures are logged, not returned.
func (l *Loader) SaveAutoReplies(ctx context.Context, key string, rules *models.AutoReplyRules) {
	l.save(ctx, "auto-reply", key, rules)
}

func (l *Loader) save(ctx context.Context, kind, key string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		l.logger.Error("Failed to encode snapshot",
			zap.Error(err),
			zap.String("kind", kind),
			zap.String("key", key))
		return
	}

	if err := l.store.Save(ctx, key, data); err != nil {
		l.logger.Error("Failed to save snapshot",
			zap.Error(err),
			zap.String("kind", kind),
			zap.String("key", key))
		return
	}

	l.logger.Debug("Saved snapshot",
		zap.String("kind", kind),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
}

func (l *Loader) logLoadFailure(kind, key string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		l.logger.Info("No snapshot found, using defaults",
			zap.String("kind", kind),
			zap.String("key", key))
		return
	}
	l.logger.Error("Failed to load snapshot, using defaults",
		zap.Error(err),
		zap.String("kind", kind),
		zap.String("key", key))
}
