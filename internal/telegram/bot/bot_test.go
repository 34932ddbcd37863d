package bot

import (
	"context"
	"testing"

	"github.com/futig/rag-query-client/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	kind    string
	command string
	msg     *handlers.Message
}

type recordingHandler struct {
	calls []call
}

func (r *recordingHandler) HandleCommand(_ context.Context, msg *handlers.Message, command string) {
	r.calls = append(r.calls, call{kind: "command", command: command, msg: msg})
}

func (r *recordingHandler) HandleText(_ context.Context, msg *handlers.Message) {
	r.calls = append(r.calls, call{kind: "text", msg: msg})
}

func (r *recordingHandler) HandleDocument(_ context.Context, msg *handlers.Message) {
	r.calls = append(r.calls, call{kind: "document", msg: msg})
}

func (r *recordingHandler) HandleCallback(_ context.Context, msg *handlers.Message) {
	r.calls = append(r.calls, call{kind: "callback", msg: msg})
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 7},
		Chat:      &tgbotapi.Chat{ID: 11},
		Text:      text,
	}
}

func TestRoute(t *testing.T) {
	cmd := message("/settings")
	cmd.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 9}}

	doc := message("")
	doc.Caption = "what is in it"
	doc.Document = &tgbotapi.Document{FileID: "f", FileName: "a.pdf"}

	updates := []tgbotapi.Update{
		{Message: cmd},
		{Message: message("revenue?")},
		{Message: doc},
		{Message: message("")},
		{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: &tgbotapi.User{ID: 7}, Message: message(""), Data: "menu:model"}},
		{},
	}

	h := &recordingHandler{}
	for _, u := range updates {
		Route(context.Background(), zap.NewNop(), h, u)
	}

	require.Len(t, h.calls, 5)
	assert.Equal(t, "command", h.calls[0].kind)
	assert.Equal(t, "settings", h.calls[0].command)

	assert.Equal(t, "text", h.calls[1].kind)
	assert.Equal(t, "revenue?", h.calls[1].msg.Text)
	assert.EqualValues(t, 11, h.calls[1].msg.ChatID)
	assert.EqualValues(t, 7, h.calls[1].msg.UserID)

	assert.Equal(t, "document", h.calls[2].kind)
	assert.Equal(t, "what is in it", h.calls[2].msg.Caption)

	assert.Equal(t, "command", h.calls[3].kind)
	assert.Equal(t, "help", h.calls[3].command)

	assert.Equal(t, "callback", h.calls[4].kind)
	assert.Equal(t, "menu:model", h.calls[4].msg.CallbackData)
	assert.Equal(t, "cb", h.calls[4].msg.CallbackID)
	assert.Equal(t, 3, h.calls[4].msg.MessageID)
}
