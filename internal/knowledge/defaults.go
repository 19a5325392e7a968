package knowledge

import (
	"regexp"
	"time"

	"github.com/xaenox/chatcore/internal/models"
)

// Live suppliers referenced by name from the question table
const (
	SupplierTime = "time"
	SupplierDate = "date"
)

// Suppliers returns the computed answers known to the loader, reading the clock from now
func Suppliers(now func() time.Time) map[string]func() string {
	return map[string]func() string{
		SupplierTime: func() string {
			return "Current time: " + now().Format("3:04:05 PM")
		},
		SupplierDate: func() string {
			return "Today's date: " + now().Format("Mon Jan 02 2006")
		},
	}
}

// DefaultKnowledgeBase returns the built-in tables used when no snapshot exists
func DefaultKnowledgeBase(now func() time.Time) *models.KnowledgeBase {
	sup := Suppliers(now)

	return &models.KnowledgeBase{
		Greetings: []string{"hello", "hi", "hey", "hola", "namaste", "salam"},
		Farewells: []string{"bye", "goodbye", "see you", "later", "take care"},
		Questions: models.QuestionTable{
			{Question: "how are you", Answer: models.FixedAnswer(
				"I'm doing great! How about you?",
				"All systems operational! How can I help?",
			)},
			{Question: "what is your name", Answer: models.FixedAnswer(
				"I'm XMD AI Bot!",
				"Call me XMD AI Assistant!",
			)},
			{Question: "who created you", Answer: models.FixedAnswer(
				"I was built by my owner as a small rule-based assistant!",
				"My developer keeps teaching me new tricks!",
			)},
			{Question: "what can you do", Answer: models.FixedAnswer(
				"I can chat with you, answer questions, remember our conversations, and learn from interactions!",
				"I'm here to assist with conversations and provide helpful responses!",
			)},
			{Question: "time", Answer: models.ComputedAnswer(SupplierTime, sup[SupplierTime])},
			{Question: "date", Answer: models.ComputedAnswer(SupplierDate, sup[SupplierDate])},
		},
		Responses: map[string][]string{
			models.TopicDefault: {
				"Interesting! Tell me more.",
				"I see. What else would you like to know?",
				"That's fascinating!",
			},
			models.TopicJoke: {
				"Why don't scientists trust atoms? Because they make up everything!",
				"Why did the computer go to the doctor? It had a virus!",
				"What do you call a fake noodle? An impasta!",
			},
			models.TopicFact: {
				"Honey never spoils. Archaeologists have found pots of honey in ancient Egyptian tombs that are over 3,000 years old and still perfectly good to eat.",
				"Octopuses have three hearts. Two pump blood to the gills, while the third pumps it to the rest of the body.",
				"A day on Venus is longer than a year on Venus.",
			},
			models.TopicQuote: {
				"The only way to do great work is to love what you do. – Steve Jobs",
				"Innovation distinguishes between a leader and a follower. – Steve Jobs",
				"The future belongs to those who believe in the beauty of their dreams. – Eleanor Roosevelt",
			},
		},
		Patterns:     DefaultPatterns(),
		LearnedWords: []string{},
	}
}

// DefaultPatterns returns the topic rules in the order they are tested
func DefaultPatterns() []models.PatternRule {
	return []models.PatternRule{
		{Topic: models.TopicHelp, Pattern: regexp.MustCompile(`(?i)help|support|assist|guide`)},
		{Topic: models.TopicJoke, Pattern: regexp.MustCompile(`(?i)joke|funny|laugh|humor`)},
		{Topic: models.TopicFact, Pattern: regexp.MustCompile(`(?i)fact|interesting|tell me something|knowledge`)},
		{Topic: models.TopicQuote, Pattern: regexp.MustCompile(`(?i)quote|inspiration|motivation|wisdom`)},
		{Topic: models.TopicWeather, Pattern: regexp.MustCompile(`(?i)weather|rain|sunny|temperature`)},
		{Topic: models.TopicMath, Pattern: regexp.MustCompile(`calculate|math|plus|minus|multiply|divide|\d+\s*[+\-*/]\s*\d+`)},
		{Topic: models.TopicSong, Pattern: regexp.MustCompile(`(?i)song|music|play|artist|sing`)},
	}
}

// DefaultAutoReplyRules returns the built-in keyword table and group rules
func DefaultAutoReplyRules() *models.AutoReplyRules {
	return &models.AutoReplyRules{
		Keywords: models.KeywordTable{
			{Keyword: "menu", Reply: "Here's what I can do:\n1. Chat with me\n2. Ask for a joke\n3. Request a fact\n4. Get a quote\n5. Math calculations\nSay 'help' for more options!"},
			{Keyword: "owner", Reply: "My owner is the person who runs this bot! 👑"},
			{Keyword: "bot", Reply: "I'm XMD AI Bot, powered by advanced algorithms!"},
			{Keyword: "love", Reply: "I'm programmed to be helpful and friendly! 💖"},
			{Keyword: "thank you", Reply: "You're welcome! 😊"},
			{Keyword: "sorry", Reply: "No problem at all! 😇"},
			{Keyword: "sticker", Reply: "I can't send stickers yet, but I'm learning!"},
			{Keyword: "image", Reply: "Image processing features coming soon! 🖼️"},
			{Keyword: "video", Reply: "Video features are in development! 🎬"},
		},
		GroupRules: []string{
			"Be respectful to everyone",
			"No spam or advertising",
			"Keep conversations appropriate",
			"Help each other learn",
		},
	}
}
