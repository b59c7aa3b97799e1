package retrieval

import (
	"strings"
	"unicode/utf8"

	"github.com/elonge/venetia-engine/core"
)

// historyWindow is how many trailing turns feed the reformulated query.
const historyWindow = 4

// answerBriefLength caps how much of a previous answer is carried into the
// reformulated query. Answers are long; their opening carries the topic.
const answerBriefLength = 200

// BuildQueryWithContext folds recent conversation turns into the query text
// so the embedding sees what a follow-up question refers to. With no usable
// history the message is returned verbatim. The output is only ever used as
// embedding input; the conversation itself is never altered.
func BuildQueryWithContext(message string, history []core.Turn) string {
	if len(history) == 0 {
		return message
	}

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	var parts []string
	for _, turn := range recent {
		switch turn.Role {
		case core.RoleUser:
			parts = append(parts, "Previous question: "+turn.Content)
		case core.RoleAssistant:
			brief := turn.Content
			if utf8.RuneCountInString(brief) > answerBriefLength {
				// Cut on a rune boundary; a byte slice could split a
				// multi-byte character and emit invalid UTF-8.
				brief = string([]rune(brief)[:answerBriefLength]) + "..."
			}
			parts = append(parts, "Previous answer: "+brief)
		}
	}
	if len(parts) == 0 {
		return message
	}

	return strings.Join(parts, "\n") + "\n\nCurrent question: " + message
}
