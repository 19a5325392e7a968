package classifier

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/xaenox/chatcore/internal/models"
)

// Chooser returns an index in [0, n). Replies drawn from a pool go through it.
type Chooser func(n int) int

// UniformChooser picks uniformly at random
func UniformChooser(n int) int {
	return rand.Intn(n)
}

// Kind is the path of the classifier that produced a reply
type Kind int

const (
	KindUnmatched Kind = iota
	KindTopic
	KindGreeting
	KindFarewell
	KindQuestion
	KindArithmetic
	KindFallback
)

// Result is the outcome of classifying a message.
// Mood is empty when the message says nothing about the sender's mood.
type Result struct {
	Kind  Kind
	Topic string
	Reply string
	Mood  models.Mood
}

// Matched reports whether a rule-based or arithmetic path recognised the message
func (r Result) Matched() bool {
	return r.Kind != KindUnmatched && r.Kind != KindFallback
}

const (
	HelpReply    = "I can help you with:\n• General conversations\n• Math calculations\n• Telling jokes\n• Sharing facts\n• Providing quotes\n• Answering questions\n\nJust ask me anything!"
	WeatherReply = "I can't check real-time weather without an API, but I suggest checking your local weather app! ☀️🌧️"
	SongReply    = "I'm currently learning about music! For now, I recommend checking Spotify or YouTube for your favorite tunes! 🎵"
	MathReply    = "Send me an expression like 12 * (3 + 4) and I'll work it out! 🧮"
	HappyReply   = "That's wonderful to hear! 😊 I'm glad you're feeling good!"
	SadReply     = "I'm sorry to hear that. I'm here if you want to talk about it. 🤗"
)

var (
	GreetingReplies = []string{"Hello! 👋", "Hi there!", "Hey! How can I assist you today?"}
	FarewellReplies = []string{"Goodbye! 👋", "See you soon!", "Take care!"}

	QuestionReplies = []string{
		"That's an interesting question!",
		"I'm learning about that topic.",
		"Let me think about that...",
		"Great question! Could you elaborate?",
		"I'm not entirely sure, but I'm always learning!",
	}

	EngagingReplies = []string{
		"Interesting! What else would you like to chat about?",
		"I see. How does that make you feel?",
		"That's fascinating! Could you tell me more?",
		"Thanks for sharing that with me!",
		"I'm learning so much from our conversation!",
	}

	questionWords = []string{"what", "why", "how", "when", "where", "who", "which", "can", "do", "does"}
	happyWords    = []string{"happy", "excited", "good", "great", "awesome", "wonderful"}
	sadWords      = []string{"sad", "bad", "upset", "angry", "frustrated", "tired"}

	mathShape = regexp.MustCompile(`\d+\s*[+\-*/]\s*\d+`)
)

// ContextReply is the fallback that points back at the sender's last topic
func ContextReply(topic string) string {
	return fmt.Sprintf("You mentioned %q earlier. Tell me more about it!", topic)
}

// IntentClassifier applies, in order: topic patterns, greetings, farewells,
// the canned question table and arithmetic detection.
type IntentClassifier struct {
	kb     *models.KnowledgeBase
	choose Chooser
}

func NewIntentClassifier(kb *models.KnowledgeBase, choose Chooser) *IntentClassifier {
	if choose == nil {
		choose = UniformChooser
	}
	return &IntentClassifier{kb: kb, choose: choose}
}

// Classify expects text already trimmed and lower-cased.
// A KindUnmatched result carries no reply; the caller continues with Fallback.
func (c *IntentClassifier) Classify(text string) Result {
	for _, rule := range c.kb.Patterns {
		if rule.Pattern != nil && rule.Pattern.MatchString(text) {
			return Result{Kind: KindTopic, Topic: rule.Topic, Reply: c.topicReply(rule.Topic, text)}
		}
	}

	if containsAny(text, c.kb.Greetings) {
		return Result{Kind: KindGreeting, Reply: c.pick(GreetingReplies)}
	}

	if containsAny(text, c.kb.Farewells) {
		return Result{Kind: KindFarewell, Reply: c.pick(FarewellReplies)}
	}

	for _, entry := range c.kb.Questions {
		if entry.Question == "" || !strings.Contains(text, entry.Question) {
			continue
		}
		switch entry.Answer.Kind {
		case models.AnswerComputed:
			if entry.Answer.Supply != nil {
				return Result{Kind: KindQuestion, Reply: entry.Answer.Supply()}
			}
		case models.AnswerFixed:
			if len(entry.Answer.Pool) > 0 {
				return Result{Kind: KindQuestion, Reply: c.pick(entry.Answer.Pool)}
			}
		}
	}

	if LooksLikeExpression(text) {
		return Result{Kind: KindArithmetic, Topic: models.TopicMath, Reply: Evaluate(text)}
	}

	return Result{Kind: KindUnmatched}
}

// Fallback produces a reply for text nothing else recognised
func (c *IntentClassifier) Fallback(text string, uc models.UserContext) Result {
	if hasAnyPrefix(text, questionWords) {
		return Result{Kind: KindFallback, Reply: c.pick(QuestionReplies)}
	}

	if containsAny(text, happyWords) {
		return Result{Kind: KindFallback, Reply: HappyReply, Mood: models.MoodHappy}
	}

	if containsAny(text, sadWords) {
		return Result{Kind: KindFallback, Reply: SadReply, Mood: models.MoodSad}
	}

	if uc.LastTopic != "" {
		return Result{Kind: KindFallback, Reply: ContextReply(uc.LastTopic)}
	}

	return Result{Kind: KindFallback, Reply: c.pick(EngagingReplies)}
}

func (c *IntentClassifier) topicReply(topic, text string) string {
	switch topic {
	case models.TopicHelp:
		return HelpReply
	case models.TopicWeather:
		return WeatherReply
	case models.TopicSong:
		return SongReply
	case models.TopicMath:
		if mathShape.MatchString(text) || LooksLikeExpression(text) {
			return Evaluate(text)
		}
		return MathReply
	}

	if pool := c.kb.Pool(topic); len(pool) > 0 {
		return c.pick(pool)
	}
	if pool := c.kb.Pool(models.TopicDefault); len(pool) > 0 {
		return c.pick(pool)
	}
	return c.pick(EngagingReplies)
}

func (c *IntentClassifier) pick(pool []string) string {
	i := c.choose(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(text string, words []string) bool {
	for _, w := range words {
		if strings.HasPrefix(text, w) {
			return true
		}
	}
	return false
}
