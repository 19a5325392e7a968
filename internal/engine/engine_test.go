package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xaenox/chatcore/internal/classifier"
	"github.com/xaenox/chatcore/internal/knowledge"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 15, 4, 5, 0, time.UTC) }

type countingRequester struct {
	n atomic.Int64
}

func (c *countingRequester) Request() { c.n.Add(1) }

func newTestEngine(policy PersistPolicy) (*ResponseEngine, *LearningStore, *ContextStore, *countingRequester) {
	kb := knowledge.DefaultKnowledgeBase(fixedNow)
	learning := NewLearningStore(kb, policy)
	contexts := NewContextStore(0, 0)
	saves := &countingRequester{}
	eng := NewResponseEngine(classifier.NewIntentClassifier(kb, nil), contexts, learning, saves, zap.NewNop())
	return eng, learning, contexts, saves
}

func TestReply_UpdatesContext(t *testing.T) {
	eng, _, contexts, _ := newTestEngine(Never)

	reply := eng.Reply("alice", "  HELLO  ")
	assert.Contains(t, classifier.GreetingReplies, reply)

	uc, ok := contexts.Get("alice")
	assert.True(t, ok)
	assert.Equal(t, "hello", uc.LastMessage)
	assert.Empty(t, uc.LastTopic)
	assert.Equal(t, models.MoodNeutral, uc.Mood)
}

func TestReply_RemembersTopic(t *testing.T) {
	eng, _, contexts, _ := newTestEngine(Never)

	eng.Reply("alice", "tell me a joke")
	uc, _ := contexts.Get("alice")
	assert.Equal(t, models.TopicJoke, uc.LastTopic)

	reply := eng.Reply("alice", "the cat sat on the mat")
	assert.Equal(t, classifier.ContextReply(models.TopicJoke), reply)

	// other senders do not share context
	reply = eng.Reply("bob", "the cat sat on the mat")
	assert.Contains(t, classifier.EngagingReplies, reply)
}

func TestReply_TracksMood(t *testing.T) {
	eng, _, contexts, _ := newTestEngine(Never)

	assert.Equal(t, classifier.HappyReply, eng.Reply("alice", "I feel great today"))
	uc, _ := contexts.Get("alice")
	assert.Equal(t, models.MoodHappy, uc.Mood)

	assert.Equal(t, classifier.SadReply, eng.Reply("alice", "now I am tired"))
	uc, _ = contexts.Get("alice")
	assert.Equal(t, models.MoodSad, uc.Mood)
}

func TestReply_LearnsOnlyUnrecognisedInput(t *testing.T) {
	eng, learning, _, saves := newTestEngine(Always)

	eng.Reply("alice", "tell me a joke")
	eng.Reply("alice", "hello")
	eng.Reply("alice", "2 + 2")
	assert.Zero(t, learning.Len())
	assert.Zero(t, saves.n.Load())

	eng.Reply("alice", "the purple elephant dances")
	assert.Equal(t, []string{"purple", "elephant", "dances"}, learning.Words())
	assert.Equal(t, int64(1), saves.n.Load())

	eng.Reply("alice", "the purple elephant dances")
	assert.Equal(t, 3, learning.Len())
	assert.Equal(t, int64(1), saves.n.Load())
}

func TestReply_AlwaysAnswers(t *testing.T) {
	eng, _, _, _ := newTestEngine(Never)

	for _, text := range []string{"", "   ", "zzzz", "???", "4/0"} {
		assert.NotEmpty(t, eng.Reply("alice", text), "input %q", text)
	}
}

func TestReply_ConcurrentSenders(t *testing.T) {
	eng, learning, contexts, _ := newTestEngine(NewEveryN(5))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sender := fmt.Sprintf("sender-%d", i)
			for j := 0; j < 10; j++ {
				eng.Reply(sender, fmt.Sprintf("random chatter number%d", j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, contexts.Len())
	// "random", "chatter" and ten distinct "numberN" tokens
	assert.Equal(t, 12, learning.Len())
}
