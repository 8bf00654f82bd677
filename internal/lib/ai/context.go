package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
)

const (
	// MaxTurns is the most history turns sent to the model, not counting
	// the new message.
	MaxTurns = 20
	// MaxContextChars bounds the characters across the sent history.
	MaxContextChars = 24000
)

// BuildContext turns a raw history plus the new user message into the
// turns sent to the model:
//
//   - blank turns and unknown roles are dropped, consecutive turns of the
//     same role are merged
//   - the most recent MaxTurns history turns are kept, then the oldest are
//     dropped until the history fits in MaxContextChars
//   - the history starts with a user turn
//
// The new message is appended last as its own turn and is never dropped.
func BuildContext(history []model.ChatMessage, message string) []model.ChatMessage {
	turns := normalize(history)

	if len(turns) > MaxTurns {
		turns = turns[len(turns)-MaxTurns:]
	}

	total := 0
	for _, t := range turns {
		total += utf8.RuneCountInString(t.Text)
	}
	for len(turns) > 0 && total > MaxContextChars {
		total -= utf8.RuneCountInString(turns[0].Text)
		turns = turns[1:]
	}
	turns = dropLeadingModel(turns)

	out := make([]model.ChatMessage, 0, len(turns)+1)
	out = append(out, turns...)
	return append(out, model.ChatMessage{Role: model.ChatRoleUser, Text: strings.TrimSpace(message)})
}

func normalize(in []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(in))
	for _, t := range in {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		if t.Role != model.ChatRoleUser && t.Role != model.ChatRoleModel {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == t.Role {
			out[n-1].Text += "\n\n" + text
			continue
		}
		out = append(out, model.ChatMessage{Role: t.Role, Text: text, CreatedAt: t.CreatedAt})
	}
	return out
}

func dropLeadingModel(turns []model.ChatMessage) []model.ChatMessage {
	for len(turns) > 0 && turns[0].Role != model.ChatRoleUser {
		turns = turns[1:]
	}
	return turns
}

// Title derives a conversation title from its first message.
func Title(message string) string {
	const maxLen = 60
	message = strings.Join(strings.Fields(message), " ")
	if utf8.RuneCountInString(message) <= maxLen {
		return message
	}
	r := []rune(message)[:maxLen-1]
	return strings.TrimSpace(string(r)) + "…"
}
