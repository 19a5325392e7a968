// Package engine turns an inbound message into a reply: auto-replies first,
// then intent classification, with per-sender context and vocabulary learning.
package engine

import (
	"strings"

	"github.com/xaenox/chatcore/internal/classifier"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

// SaveRequester is notified when the learned vocabulary should be persisted
type SaveRequester interface {
	Request()
}

type ResponseEngine struct {
	classifier *classifier.IntentClassifier
	contexts   *ContextStore
	learning   *LearningStore
	saves      SaveRequester
	logger     *zap.Logger
}

func NewResponseEngine(clf *classifier.IntentClassifier, contexts *ContextStore, learning *LearningStore, saves SaveRequester, logger *zap.Logger) *ResponseEngine {
	return &ResponseEngine{
		classifier: clf,
		contexts:   contexts,
		learning:   learning,
		saves:      saves,
		logger:     logger,
	}
}

// Reply always returns exactly one reply for text
func (e *ResponseEngine) Reply(senderID, text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))

	var reply string
	e.contexts.With(senderID, func(uc *models.UserContext) {
		uc.LastMessage = normalized

		res := e.classifier.Classify(normalized)
		if !res.Matched() {
			added, persist := e.learning.Observe(normalized)
			if added > 0 {
				e.logger.Debug("Learned new words",
					zap.String("sender_id", senderID),
					zap.Int("added", added))
			}
			if persist && e.saves != nil {
				e.saves.Request()
			}
			res = e.classifier.Fallback(normalized, *uc)
		}

		if res.Kind == classifier.KindTopic {
			uc.LastTopic = res.Topic
		}
		if res.Mood != "" {
			uc.Mood = res.Mood
		}
		reply = res.Reply
	})

	return reply
}
