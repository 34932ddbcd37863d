package render

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/errkind"
	"github.com/futig/rag-query-client/internal/telegram/state"
	"github.com/stretchr/testify/assert"
)

func TestSettings(t *testing.T) {
	s := state.DefaultSettings()
	s.YearQuarters = []string{"2024_Q4", "2025_Q1"}

	out := Settings(s)
	assert.Contains(t, out, "Model: openai/gpt-4o")
	assert.Contains(t, out, "Quarters: 2024_Q4, 2025_Q1")
}

func TestError(t *testing.T) {
	assert.Equal(t, "⚠️ "+errkind.MsgEmptyPrompt, Error(entity.ErrEmptyPrompt))
	assert.Equal(t, "❌ "+errkind.MsgUnreachable, Error(fmt.Errorf("%w: refused", entity.ErrTransport)))
	assert.Equal(t, "❌ "+errkind.MsgReportFailed, Error(fmt.Errorf("%w: x", entity.ErrContent)))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{""}, SplitMessage("", 10))

	text := "line one\nline two\nline three"
	parts := SplitMessage(text, 12)
	assert.Equal(t, []string{"line one", "line two", "line three"}, parts)

	long := strings.Repeat("ж", 25)
	parts = SplitMessage(long, 10)
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 10)
	}
	assert.Equal(t, long, strings.Join(parts, ""))
}

func utf16Units(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func TestSplitMessageCountsUTF16Units(t *testing.T) {
	emoji := strings.Repeat("😀", 25)

	parts := SplitMessage(emoji, 10)
	assert.Len(t, parts, 5)
	for _, p := range parts {
		assert.LessOrEqual(t, utf16Units(p), 10)
	}
	assert.Equal(t, emoji, strings.Join(parts, ""))

	mixed := strings.Repeat("a😀", 3000)
	parts = SplitMessage(mixed, MaxMessageLength)
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf16Units(p), MaxMessageLength)
	}
	assert.Equal(t, mixed, strings.Join(parts, ""))
}

func TestSplitMessageLimitBelowRuneWidth(t *testing.T) {
	parts := SplitMessage("😀😀", 1)
	assert.Equal(t, []string{"😀", "😀"}, parts)
}
