package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(text string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleUser, Text: text}
}

func bot(text string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleModel, Text: text}
}

func texts(turns []model.ChatMessage) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = string(t.Role) + ":" + t.Text
	}
	return out
}

func TestBuildContext_EmptyHistory(t *testing.T) {
	got := BuildContext(nil, "What is PWM?")
	assert.Equal(t, []string{"user:What is PWM?"}, texts(got))
}

func TestBuildContext_DropsBlankAndMergesSameRole(t *testing.T) {
	history := []model.ChatMessage{
		user("Hi"),
		user("  "),
		user("I have an Arduino"),
		bot("Great!"),
		bot(""),
		bot("What do you want to build?"),
		{Role: "system", Text: "ignore me"},
	}

	got := BuildContext(history, "A line follower")
	assert.Equal(t, []string{
		"user:Hi\n\nI have an Arduino",
		"model:Great!\n\nWhat do you want to build?",
		"user:A line follower",
	}, texts(got))
}

func TestBuildContext_StartsWithUser(t *testing.T) {
	got := BuildContext([]model.ChatMessage{bot("Welcome to Robosphere"), user("Hello"), bot("Hi!")}, "Help")
	require.NotEmpty(t, got)
	assert.Equal(t, model.ChatRoleUser, got[0].Role)
	assert.Equal(t, "user:Hello", texts(got)[0])
}

func TestBuildContext_PendingUserTurnStaysSeparate(t *testing.T) {
	got := BuildContext([]model.ChatMessage{user("q1"), bot("a1"), user("q2 (unanswered)")}, "q3")
	assert.Equal(t, []string{"user:q1", "model:a1", "user:q2 (unanswered)", "user:q3"}, texts(got))
}

func TestBuildContext_KeepsLastMaxTurns(t *testing.T) {
	var history []model.ChatMessage
	for i := 0; i < MaxTurns/2; i++ {
		history = append(history, user(fmt.Sprintf("q%d", i)), bot(fmt.Sprintf("a%d", i)))
	}

	got := BuildContext(history, "latest")
	require.Len(t, got, MaxTurns+1)
	assert.Equal(t, "user:q0", texts(got)[0])
	assert.Equal(t, "user:latest", texts(got)[MaxTurns])

	history = append(history, user("q-extra"), bot("a-extra"))
	got = BuildContext(history, "latest")
	require.Len(t, got, MaxTurns+1)
	assert.Equal(t, "user:q1", texts(got)[0])
	assert.Equal(t, "model:a-extra", texts(got)[MaxTurns-1])
}

func TestBuildContext_WindowStartingWithModelIsTrimmed(t *testing.T) {
	history := []model.ChatMessage{user("q0")}
	for i := 1; i <= MaxTurns/2; i++ {
		history = append(history, bot(fmt.Sprintf("a%d", i)), user(fmt.Sprintf("q%d", i)))
	}

	// The newest MaxTurns turns begin with "a1", which cannot lead.
	got := BuildContext(history, "next")
	require.Len(t, got, MaxTurns)
	assert.Equal(t, "user:q1", texts(got)[0])
	assert.Equal(t, "user:q10", texts(got)[MaxTurns-2])
	assert.Equal(t, "user:next", texts(got)[MaxTurns-1])
}

func TestBuildContext_CharacterBudget(t *testing.T) {
	big := strings.Repeat("x", 9000)
	history := []model.ChatMessage{user(big), bot(big), user(big), bot("short")}

	got := BuildContext(history, "now")

	total := 0
	for _, turn := range got[:len(got)-1] {
		total += utf8.RuneCountInString(turn.Text)
	}
	assert.LessOrEqual(t, total, MaxContextChars)
	assert.Equal(t, model.ChatRoleUser, got[0].Role)
	assert.Equal(t, "now", got[len(got)-1].Text)
}

func TestBuildContext_OversizedMessageSurvives(t *testing.T) {
	huge := strings.Repeat("y", MaxContextChars+10)
	got := BuildContext([]model.ChatMessage{user("a"), bot("b")}, huge)
	require.Len(t, got, 3)
	assert.Equal(t, huge, got[2].Text)
}

func TestBuildContext_DoesNotMutateHistory(t *testing.T) {
	history := []model.ChatMessage{user("  a  "), user("b")}
	_ = BuildContext(history, "c")
	assert.Equal(t, "  a  ", history[0].Text)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "How do I wire a servo?", Title("  How do I wire\n a servo? "))

	long := Title(strings.Repeat("robot ", 30))
	assert.LessOrEqual(t, utf8.RuneCountInString(long), 60)
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestNewGemini_NoKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
