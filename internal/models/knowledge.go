package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// AnswerKind tells a fixed answer pool apart from a live, computed answer
type AnswerKind int

const (
	AnswerFixed AnswerKind = iota
	AnswerComputed
)

// Answer is the value side of the canned question table.
// A Fixed answer carries a pool to pick from; a Computed answer names a
// supplier that produces the reply at request time (current time, date).
type Answer struct {
	Kind   AnswerKind
	Pool   []string
	Name   string
	Supply func() string
}

// FixedAnswer builds an answer drawn at random from pool
func FixedAnswer(pool ...string) Answer {
	return Answer{Kind: AnswerFixed, Pool: pool}
}

// ComputedAnswer builds an answer produced by fn; name is what gets persisted
func ComputedAnswer(name string, fn func() string) Answer {
	return Answer{Kind: AnswerComputed, Name: name, Supply: fn}
}

type computedRef struct {
	Computed string `json:"computed"`
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerComputed:
		return json.Marshal(computedRef{Computed: a.Name})
	default:
		pool := a.Pool
		if pool == nil {
			pool = []string{}
		}
		return json.Marshal(pool)
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pool []string
		if err := json.Unmarshal(data, &pool); err != nil {
			return err
		}
		*a = FixedAnswer(pool...)
		return nil
	}

	var ref computedRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	if ref.Computed == "" {
		return fmt.Errorf("answer is neither a pool nor a computed reference")
	}
	*a = Answer{Kind: AnswerComputed, Name: ref.Computed}
	return nil
}

// QuestionEntry is one row of the canned question table
type QuestionEntry struct {
	Question string
	Answer   Answer
}

// QuestionTable keeps the insertion order of the snapshot's JSON object,
// since the first matching question wins.
type QuestionTable []QuestionEntry

func (t QuestionTable) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(t), func(i int) (string, any) {
		return t[i].Question, t[i].Answer
	})
}

func (t *QuestionTable) UnmarshalJSON(data []byte) error {
	var out QuestionTable
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var a Answer
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("question %q: %w", key, err)
		}
		out = append(out, QuestionEntry{Question: key, Answer: a})
		return nil
	})
	if err != nil {
		return err
	}
	*t = out
	return nil
}

// PatternRule maps a topic to the expression that recognises it
type PatternRule struct {
	Topic   string
	Pattern *regexp.Regexp
}

type patternRuleJSON struct {
	Topic   string `json:"topic"`
	Pattern string `json:"pattern"`
}

func (r PatternRule) MarshalJSON() ([]byte, error) {
	var expr string
	if r.Pattern != nil {
		expr = r.Pattern.String()
	}
	return json.Marshal(patternRuleJSON{Topic: r.Topic, Pattern: expr})
}

func (r *PatternRule) UnmarshalJSON(data []byte) error {
	var raw patternRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Topic == "" {
		return fmt.Errorf("pattern rule without topic")
	}
	re, err := regexp.Compile(raw.Pattern)
	if err != nil {
		return fmt.Errorf("pattern for topic %q: %w", raw.Topic, err)
	}
	r.Topic = raw.Topic
	r.Pattern = re
	return nil
}

// KnowledgeBase is the immutable-after-load table set the classifier reads.
// LearnedWords is only the persisted seed; the live set belongs to the learning store.
type KnowledgeBase struct {
	Greetings    []string            `json:"greetings"`
	Farewells    []string            `json:"farewells"`
	Questions    QuestionTable       `json:"questions"`
	Responses    map[string][]string `json:"responses"`
	Patterns     []PatternRule       `json:"patterns"`
	LearnedWords []string            `json:"learnedWords"`
}

// WithLearnedWords returns a shallow copy carrying words as its learned vocabulary
func (kb *KnowledgeBase) WithLearnedWords(words []string) *KnowledgeBase {
	cp := *kb
	cp.LearnedWords = words
	return &cp
}

// Pool returns the canned replies for topic, or nil
func (kb *KnowledgeBase) Pool(topic string) []string {
	return kb.Responses[topic]
}
