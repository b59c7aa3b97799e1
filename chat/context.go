package chat

import (
	"fmt"
	"strings"

	"github.com/elonge/venetia-engine/core"
)

// chunkSeparator divides chunks in the context block so the model sees them
// as distinct excerpts.
const chunkSeparator = "\n\n---\n\n"

// buildContext renders the evidence bundle into the context block fed to the
// model. Each chunk is headed by a numbered source label; the numbering
// matches the order of the trailing sources event.
func buildContext(bundle *core.EvidenceBundle) string {
	if bundle.Empty() {
		return "No relevant documents found."
	}

	parts := make([]string, len(bundle.Chunks))
	for i, chunk := range bundle.Chunks {
		parts[i] = fmt.Sprintf("[Source %d: %s]\n%s", i+1, chunk.Title(), chunk.Content)
	}
	return strings.Join(parts, chunkSeparator)
}

// buildTurns assembles the full message sequence for generation: the two
// engine system messages, the caller's history with any system turns dropped,
// and the current question last.
func buildTurns(bundle *core.EvidenceBundle, history []core.Turn, message string) []core.Turn {
	turns := make([]core.Turn, 0, len(history)+3)
	turns = append(turns,
		core.Turn{Role: core.RoleSystem, Content: systemPrompt},
		core.Turn{Role: core.RoleSystem, Content: "Context:\n" + buildContext(bundle)},
	)
	for _, turn := range history {
		if turn.Role == core.RoleSystem {
			continue
		}
		turns = append(turns, turn)
	}
	return append(turns, core.Turn{Role: core.RoleUser, Content: message})
}
