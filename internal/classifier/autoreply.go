package classifier

import (
	"fmt"
	"strings"

	"github.com/xaenox/chatcore/internal/models"
)

// RulesHeader prefixes the numbered group rules
const RulesHeader = "📜 Group Rules:\n"

// AutoReplyMatcher answers with a fixed text when a configured keyword
// appears in the message. It is checked before intent classification.
type AutoReplyMatcher struct {
	keywords models.KeywordTable
	rules    string
}

func NewAutoReplyMatcher(rules *models.AutoReplyRules) *AutoReplyMatcher {
	m := &AutoReplyMatcher{}
	for _, kw := range rules.Keywords {
		if kw.Keyword == "" {
			continue
		}
		m.keywords = append(m.keywords, models.KeywordReply{
			Keyword: strings.ToLower(kw.Keyword),
			Reply:   kw.Reply,
		})
	}

	if len(rules.GroupRules) > 0 {
		lines := make([]string, len(rules.GroupRules))
		for i, rule := range rules.GroupRules {
			lines[i] = fmt.Sprintf("%d. %s", i+1, rule)
		}
		m.rules = RulesHeader + strings.Join(lines, "\n")
	}

	return m
}

// Match returns the reply for the first keyword found in text, in table order
func (m *AutoReplyMatcher) Match(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, kw := range m.keywords {
		if strings.Contains(lower, kw.Keyword) {
			return kw.Reply, true
		}
	}

	// "rule" also covers "rules"
	if m.rules != "" && strings.Contains(lower, "rule") {
		return m.rules, true
	}

	return "", false
}
