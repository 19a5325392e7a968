package models

import "time"

// Message is one inbound, user-authored chat message with its text already extracted
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ChatID     string    `json:"chat_id"`
	Text       string    `json:"text"`
	IsGroup    bool      `json:"is_group"`
	FromBot    bool      `json:"from_bot"`
	ReceivedAt time.Time `json:"received_at"`
}

// Mood is the coarse emotional state last observed for a sender
type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
)

// UserContext is the per-sender conversation state
type UserContext struct {
	LastMessage string `json:"last_message"`
	LastTopic   string `json:"last_topic,omitempty"`
	Mood        Mood   `json:"mood"`
}

// NewUserContext returns the state of a sender seen for the first time
func NewUserContext() UserContext {
	return UserContext{Mood: MoodNeutral}
}

// Topic names recognised by the pattern table
const (
	TopicHelp    = "help"
	TopicJoke    = "joke"
	TopicFact    = "fact"
	TopicQuote   = "quote"
	TopicWeather = "weather"
	TopicMath    = "math"
	TopicSong    = "song"
	TopicDefault = "default"
)
