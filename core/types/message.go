package types

import (
	"strings"
	"time"
)

// ChatMessage is one turn of the widget conversation as the client sends it
// back to us. Messages live only in the client session, nothing is persisted
// server side.
type ChatMessage struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryWindow is how many trailing messages (3 exchanges) are kept as
// context for the agent.
const HistoryWindow = 6

// FormatHistory renders the trailing HistoryWindow messages in chronological
// order as alternating "Human:"/"Assistant:" lines, the shape the reasoning
// prompt expects.
func FormatHistory(history []ChatMessage) string {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	lines := []string{}
	for _, msg := range history {
		if msg.IsBot {
			lines = append(lines, "Assistant: "+msg.Text)
		} else {
			lines = append(lines, "Human: "+msg.Text)
		}
	}
	return strings.Join(lines, "\n")
}
