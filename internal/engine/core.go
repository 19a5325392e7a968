package engine

import (
	"context"
	"time"

	"github.com/xaenox/chatcore/internal/classifier"
	"github.com/xaenox/chatcore/internal/knowledge"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

type Options struct {
	KnowledgeKey string
	AutoReplyKey string
	BotName      string
	MaxSenders   int
	ContextTTL   time.Duration
	Policy       PersistPolicy
	Chooser      classifier.Chooser
}

// Core is the fully wired message pipeline
type Core struct {
	Dispatcher *Dispatcher
	Engine     *ResponseEngine
	Contexts   *ContextStore
	Learning   *LearningStore
	Persister  *Persister
}

// NewCore loads both snapshots and assembles the pipeline around them
func NewCore(ctx context.Context, loader *knowledge.Loader, opts Options, logger *zap.Logger) *Core {
	kb := loader.LoadKnowledge(ctx, opts.KnowledgeKey)
	rules := loader.LoadAutoReplies(ctx, opts.AutoReplyKey)

	learning := NewLearningStore(kb, opts.Policy)
	persister := NewPersister(loader, opts.KnowledgeKey, func() *models.KnowledgeBase {
		return kb.WithLearnedWords(learning.Words())
	}, logger)

	contexts := NewContextStore(opts.MaxSenders, opts.ContextTTL)
	clf := classifier.NewIntentClassifier(kb, opts.Chooser)
	eng := NewResponseEngine(clf, contexts, learning, persister, logger)

	return &Core{
		Dispatcher: NewDispatcher(classifier.NewAutoReplyMatcher(rules), eng, opts.BotName, logger),
		Engine:     eng,
		Contexts:   contexts,
		Learning:   learning,
		Persister:  persister,
	}
}

// Close flushes the learned vocabulary one last time
func (c *Core) Close(ctx context.Context) {
	c.Persister.Close(ctx)
}
