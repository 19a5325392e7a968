package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/chatcore/internal/classifier"
	"github.com/xaenox/chatcore/internal/knowledge"
	"github.com/xaenox/chatcore/internal/models"
	"github.com/xaenox/chatcore/internal/storage"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newTestCore(t *testing.T, store *storage.MemoryStorage, policy PersistPolicy) *Core {
	t.Helper()
	loader := knowledge.NewLoaderWithClock(store, zap.NewNop(), fixedNow)
	return NewCore(context.Background(), loader, Options{
		KnowledgeKey: "ai_learning",
		AutoReplyKey: "auto_replies",
		BotName:      "Test Bot",
		Policy:       policy,
	}, zap.NewNop())
}

func message(sender, text string) models.Message {
	return models.Message{ID: "m-" + sender, SenderID: sender, ChatID: sender, Text: text}
}

func TestDispatcher_Scenario(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	core := newTestCore(t, storage.NewMemoryStorage(), Never)
	defer core.Close(ctx)

	kb := knowledge.DefaultKnowledgeBase(fixedNow)
	menu := knowledge.DefaultAutoReplyRules().Keywords[0].Reply

	reply, ok := core.Dispatcher.Handle(ctx, message("A", "hello"))
	require.True(t, ok)
	assert.Contains(t, classifier.GreetingReplies, reply)

	reply, ok = core.Dispatcher.Handle(ctx, message("A", "joke"))
	require.True(t, ok)
	assert.Contains(t, kb.Pool(models.TopicJoke), reply)

	reply, ok = core.Dispatcher.Handle(ctx, message("A", "2 + 2"))
	require.True(t, ok)
	assert.Equal(t, "Result: 2 + 2 = 4", reply)

	reply, ok = core.Dispatcher.Handle(ctx, message("B", "menu"))
	require.True(t, ok)
	assert.Equal(t, menu, reply)

	// the auto-reply never reached the engine, so B has no context yet
	_, seen := core.Contexts.Get("B")
	assert.False(t, seen)
}

func TestDispatcher_KeywordBeatsClassification(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	core := newTestCore(t, storage.NewMemoryStorage(), Never)
	defer core.Close(ctx)

	reply, ok := core.Dispatcher.Handle(ctx, message("A", "Tell me a JOKE, Bot"))
	require.True(t, ok)
	assert.Equal(t, "I'm XMD AI Bot, powered by advanced algorithms!", reply)
}

func TestDispatcher_NoReply(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	core := newTestCore(t, storage.NewMemoryStorage(), Never)
	defer core.Close(ctx)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, ok := core.Dispatcher.Handle(ctx, message("A", text))
		assert.False(t, ok, "input %q", text)
	}

	own := message("A", "hello")
	own.FromBot = true
	_, ok := core.Dispatcher.Handle(ctx, own)
	assert.False(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, ok = core.Dispatcher.Handle(cancelled, message("A", "hello"))
	assert.False(t, ok)
}

type panickingResponder struct{}

func (panickingResponder) Reply(string, string) string { panic("boom") }

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	d := NewDispatcher(classifier.NewAutoReplyMatcher(knowledge.DefaultAutoReplyRules()), panickingResponder{}, "Test Bot", zap.NewNop())

	var (
		reply string
		ok    bool
	)
	assert.NotPanics(t, func() {
		reply, ok = d.Handle(context.Background(), message("A", "something new"))
	})
	assert.False(t, ok)
	assert.Empty(t, reply)

	// other messages keep flowing
	reply, ok = d.Handle(context.Background(), message("B", "menu"))
	assert.True(t, ok)
	assert.NotEmpty(t, reply)
}

func TestDispatcher_Welcome(t *testing.T) {
	d := NewDispatcher(classifier.NewAutoReplyMatcher(&models.AutoReplyRules{}), panickingResponder{}, "Test Bot", zap.NewNop())

	msg := d.Welcome([]string{"alice", " ", "bob"})
	assert.Contains(t, msg, "Welcome to the group, @alice, @bob!")
	assert.Contains(t, msg, "I'm Test Bot.")

	assert.Contains(t, d.Welcome(nil), "Welcome to the group, everyone!")
}

func TestCore_FlushesLearnedWordsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := storage.NewMemoryStorage()
	core := newTestCore(t, store, Never)

	_, ok := core.Dispatcher.Handle(ctx, message("A", "the purple elephant dances"))
	require.True(t, ok)
	core.Close(ctx)

	data, err := store.Load(ctx, "ai_learning")
	require.NoError(t, err)

	var snap struct {
		LearnedWords []string `json:"learnedWords"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []string{"purple", "elephant", "dances"}, snap.LearnedWords)

	// a fresh process picks the vocabulary back up
	again := newTestCore(t, store, Never)
	defer again.Close(ctx)
	assert.Equal(t, []string{"purple", "elephant", "dances"}, again.Learning.Words())
}
