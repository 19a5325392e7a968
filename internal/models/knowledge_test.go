package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionTable_KeepsOrderAndVariants(t *testing.T) {
	doc := `{
		"zebra": ["z1", "z2"],
		"time": {"computed": "time"},
		"apple": []
	}`

	var table QuestionTable
	require.NoError(t, json.Unmarshal([]byte(doc), &table))
	require.Len(t, table, 3)

	assert.Equal(t, "zebra", table[0].Question)
	assert.Equal(t, AnswerFixed, table[0].Answer.Kind)
	assert.Equal(t, []string{"z1", "z2"}, table[0].Answer.Pool)

	assert.Equal(t, "time", table[1].Question)
	assert.Equal(t, AnswerComputed, table[1].Answer.Kind)
	assert.Equal(t, "time", table[1].Answer.Name)
	assert.Nil(t, table[1].Answer.Supply)

	assert.Equal(t, "apple", table[2].Question)

	out, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":["z1","z2"],"time":{"computed":"time"},"apple":[]}`, string(out))
}

func TestAnswer_RejectsUnknownShape(t *testing.T) {
	var table QuestionTable
	assert.Error(t, json.Unmarshal([]byte(`{"q": {"other": 1}}`), &table))
	assert.Error(t, json.Unmarshal([]byte(`["not", "an", "object"]`), &table))
}

func TestPatternRule_Compiles(t *testing.T) {
	var rules []PatternRule
	require.NoError(t, json.Unmarshal([]byte(`[{"topic":"joke","pattern":"(?i)joke|funny"}]`), &rules))
	require.Len(t, rules, 1)
	assert.True(t, rules[0].Pattern.MatchString("so FUNNY"))

	assert.Error(t, json.Unmarshal([]byte(`[{"topic":"bad","pattern":"("}]`), &rules))
	assert.Error(t, json.Unmarshal([]byte(`[{"pattern":"x"}]`), &rules))
}

func TestKeywordTable_Order(t *testing.T) {
	var rules AutoReplyRules
	require.NoError(t, json.Unmarshal([]byte(`{"keywords":{"menu":"m","bot":"b","love":"l"},"groupRules":["one"]}`), &rules))

	keys := make([]string, len(rules.Keywords))
	for i, kw := range rules.Keywords {
		keys[i] = kw.Keyword
	}
	assert.Equal(t, []string{"menu", "bot", "love"}, keys)
	assert.Equal(t, []string{"one"}, rules.GroupRules)

	var empty KeywordTable
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Empty(t, empty)
}

func TestKnowledgeBase_WithLearnedWords(t *testing.T) {
	kb := &KnowledgeBase{Greetings: []string{"hi"}, LearnedWords: []string{"old"}}
	cp := kb.WithLearnedWords([]string{"new"})

	assert.Equal(t, []string{"old"}, kb.LearnedWords)
	assert.Equal(t, []string{"new"}, cp.LearnedWords)
	assert.Equal(t, kb.Greetings, cp.Greetings)
}
