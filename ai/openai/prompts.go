package openai

import (
	"fmt"
	"strings"
)

const expansionPromptTemplate = `You are helping build a semantic search time-series over early twentieth century personal letters.
Given a user-provided concept term, produce a compact concept expansion that will be embedded.
Return ONLY valid JSON with keys: term, definition, synonyms, indicators, exclusions.

Guidelines:
- definition: 1-2 sentences, concrete, avoid academic tone.
- synonyms: 5-12 single words/short phrases.
- indicators: 8-16 short phrases likely to appear in letters (first-person, period-appropriate).
- exclusions: 4-10 related but distinct concepts to avoid confusing (e.g. shame vs guilt).
- Keep arrays unique and concise.

Term: %s`

// buildExpansionPrompt renders the expansion prompt for a term.
func buildExpansionPrompt(term string) string {
	return fmt.Sprintf(expansionPromptTemplate, strings.TrimSpace(term))
}
