package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/telegram/keyboard"
	"github.com/futig/rag-query-client/internal/telegram/render"
	"github.com/futig/rag-query-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const pdfMIME = "application/pdf"

// Message represents a normalized Telegram message or button press
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Caption      string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler turns chat input into report and document queries
type Handler struct {
	api         BotAPI
	sender      *MessageSender
	usecase     QueryUsecase
	store       *state.Store
	keyboard    *keyboard.Builder
	formatters  FormatterFactory
	files       FileDownloader
	maxFileSize int64
	logger      *zap.Logger
}

func NewHandler(
	api BotAPI,
	usecase QueryUsecase,
	store *state.Store,
	formatters FormatterFactory,
	files FileDownloader,
	maxFileSize int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		api:         api,
		sender:      NewMessageSender(api, logger),
		usecase:     usecase,
		store:       store,
		keyboard:    keyboard.NewBuilder(),
		formatters:  formatters,
		files:       files,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleCommand handles /start, /help and /settings
func (h *Handler) HandleCommand(ctx context.Context, msg *Message, command string) {
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		h.sender.Send(msg.ChatID, render.MsgWelcome, nil)
	case "help":
		h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case "settings":
		s := h.store.Settings(msg.ChatID)
		h.sender.Send(msg.ChatID, render.Settings(s), h.keyboard.SettingsKeyboard(s))
	default:
		h.sender.Send(msg.ChatID, render.MsgUnknownCommand, nil)
	}
}

// HandleText runs a report query over the chat's selected quarters
func (h *Handler) HandleText(ctx context.Context, msg *Message) {
	s := h.store.Settings(msg.ChatID)

	q := &entity.ReportQuery{
		ModelAlias:       s.ModelAlias,
		Prompt:           msg.Text,
		ChunkingStrategy: s.ChunkingStrategy,
		DB:               s.DB,
		YearQuarters:     s.YearQuarters,
	}

	h.sender.Send(msg.ChatID, render.MsgProcessing, nil)

	typing := NewTypingNotifier(h.api, msg.ChatID, tgbotapi.ChatTyping, h.logger)
	typing.Start(ctx)
	answer, err := h.usecase.AskReport(ctx, q)
	typing.Stop()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	h.sendAnswer(ctx, msg.ChatID, answer)
}

// HandleDocument uploads a PDF and asks the caption about it
func (h *Handler) HandleDocument(ctx context.Context, msg *Message) {
	doc := msg.Document
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("filename", doc.FileName),
		zap.Int("file_size", doc.FileSize),
	))

	if !isPDF(doc) {
		h.sender.Send(msg.ChatID, render.MsgNotPDF, nil)
		return
	}
	if strings.TrimSpace(msg.Caption) == "" {
		h.HandleError(ctx, msg.ChatID, entity.ErrEmptyPrompt)
		return
	}
	if h.maxFileSize > 0 && int64(doc.FileSize) > h.maxFileSize {
		h.HandleError(ctx, msg.ChatID, fmt.Errorf("%w: %d bytes", entity.ErrFileTooLarge, doc.FileSize))
		return
	}

	h.sender.Send(msg.ChatID, render.MsgProcessingPDF, nil)

	typing := NewTypingNotifier(h.api, msg.ChatID, tgbotapi.ChatUploadDocument, h.logger)
	typing.Start(ctx)
	defer typing.Stop()

	content, err := h.downloadDocument(ctx, doc)
	if err != nil {
		ctxzap.Error(ctx, "failed to download document from telegram", zap.Error(err))
		h.sender.Send(msg.ChatID, render.MsgFileDownloadFailed, nil)
		return
	}

	s := h.store.Settings(msg.ChatID)
	answer, err := h.usecase.AskDocument(ctx, &entity.DocumentQuery{
		File:             &entity.FileData{Filename: doc.FileName, Content: content},
		Tool:             s.Tool,
		ModelAlias:       s.ModelAlias,
		Prompt:           msg.Caption,
		ChunkingStrategy: s.ChunkingStrategy,
		DB:               s.DB,
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return
	}

	h.sendAnswer(ctx, msg.ChatID, answer)
}

func (h *Handler) downloadDocument(ctx context.Context, doc *tgbotapi.Document) ([]byte, error) {
	fileURL, err := h.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}
	return h.files.Download(ctx, fileURL)
}

// sendAnswer posts the answer in Telegram sized parts; the last one carries the download buttons
func (h *Handler) sendAnswer(ctx context.Context, chatID int64, answer *entity.Answer) {
	id := h.store.SaveAnswer(chatID, render.AnswerTitle, *answer)

	text := answer.Markdown
	if answer.SourceURL != "" {
		text += "\n\n" + render.MsgSourcePrefix + answer.SourceURL
	}

	parts := render.SplitMessage(text, render.MaxMessageLength)
	for i, part := range parts {
		var markup any
		if i == len(parts)-1 {
			markup = h.keyboard.DownloadKeyboard(id)
		}
		if err := h.sender.Send(chatID, part, markup); err != nil {
			return
		}
	}

	ctxzap.Info(ctx, "answer sent", zap.String("answer_id", id), zap.Int("parts", len(parts)))
}

// HandleError logs a failed query and tells the user what went wrong
func (h *Handler) HandleError(ctx context.Context, chatID int64, err error) {
	if errors.Is(err, entity.ErrValidation) {
		ctxzap.Warn(ctx, "query rejected", zap.Error(err), zap.Int64("chat_id", chatID))
	} else {
		ctxzap.Error(ctx, "query failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	h.sender.Send(chatID, render.Error(err), nil)
}

// HandleCallback handles settings menus and download buttons
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) {
	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err), zap.String("data", msg.CallbackData))
		h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
		return
	}

	ctxzap.Debug(ctx, "callback query received",
		zap.String("action", cb.Action),
		zap.String("value", cb.Value),
	)

	switch cb.Action {
	case keyboard.ActionMenu:
		h.sender.AnswerCallback(msg.CallbackID, "")
		h.showMenu(msg, cb.Value)
	case keyboard.ActionReset:
		h.store.ResetSettings(msg.ChatID)
		h.sender.AnswerCallback(msg.CallbackID, render.MsgSettingsReset)
		h.showMenu(msg, keyboard.MenuSettings)
	case keyboard.ActionQuarter:
		if _, err := entity.ParseYearQuarter(cb.Value); err != nil {
			h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
			return
		}
		h.store.UpdateSettings(msg.ChatID, func(s *state.Settings) { s.ToggleYearQuarter(cb.Value) })
		h.sender.AnswerCallback(msg.CallbackID, "")
		h.showMenu(msg, keyboard.MenuQuarters)
	case keyboard.ActionModel, keyboard.ActionChunking, keyboard.ActionDB, keyboard.ActionTool:
		if !h.applySetting(msg.ChatID, cb) {
			h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
			return
		}
		h.sender.AnswerCallback(msg.CallbackID, render.MsgSettingsSaved)
		h.showMenu(msg, keyboard.MenuSettings)
	case keyboard.ActionDownload:
		h.handleDownload(ctx, msg, cb.Value)
	default:
		h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
	}
}

// applySetting stores a single-choice selection; false means the value is not in its catalog
func (h *Handler) applySetting(chatID int64, cb *keyboard.CallbackData) bool {
	var apply func(*state.Settings)

	switch cb.Action {
	case keyboard.ActionModel:
		models := entity.ModelAliases()
		i, err := strconv.Atoi(cb.Value)
		if err != nil || i < 0 || i >= len(models) {
			return false
		}
		apply = func(s *state.Settings) { s.ModelAlias = models[i].Alias }
	case keyboard.ActionChunking:
		v := entity.ChunkingStrategy(cb.Value)
		if !v.IsValid() {
			return false
		}
		apply = func(s *state.Settings) { s.ChunkingStrategy = v }
	case keyboard.ActionDB:
		v := entity.Database(cb.Value)
		if !v.IsValid() {
			return false
		}
		apply = func(s *state.Settings) { s.DB = v }
	case keyboard.ActionTool:
		v := entity.ExtractionTool(cb.Value)
		if !v.IsValid() {
			return false
		}
		apply = func(s *state.Settings) { s.Tool = v }
	default:
		return false
	}

	h.store.UpdateSettings(chatID, apply)
	return true
}

func (h *Handler) showMenu(msg *Message, menu string) {
	s := h.store.Settings(msg.ChatID)

	var text string
	var markup tgbotapi.InlineKeyboardMarkup
	switch menu {
	case keyboard.MenuModel:
		text, markup = render.MsgChooseModel, h.keyboard.ModelKeyboard(s.ModelAlias)
	case keyboard.MenuChunking:
		text, markup = render.MsgChooseChunking, h.keyboard.ChunkingKeyboard(s.ChunkingStrategy)
	case keyboard.MenuDB:
		text, markup = render.MsgChooseDB, h.keyboard.DatabaseKeyboard(s.DB)
	case keyboard.MenuTool:
		text, markup = render.MsgChooseTool, h.keyboard.ToolKeyboard(s.Tool)
	case keyboard.MenuQuarters:
		text, markup = render.MsgChooseQuarters, h.keyboard.QuartersKeyboard(s.YearQuarters)
	default:
		text, markup = render.Settings(s), h.keyboard.SettingsKeyboard(s)
	}

	h.sender.Edit(msg.ChatID, msg.MessageID, text, markup)
}

func (h *Handler) handleDownload(ctx context.Context, msg *Message, value string) {
	format, answerID, err := keyboard.ParseDownload(value)
	if err != nil {
		h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
		return
	}

	stored, ok := h.store.Answer(msg.ChatID, answerID)
	if !ok {
		h.sender.AnswerCallback(msg.CallbackID, "")
		h.sender.Send(msg.ChatID, render.MsgAnswerExpired, nil)
		return
	}

	f, err := h.formatters.Create(entity.ResultFormat(format))
	if err != nil {
		ctxzap.Warn(ctx, "invalid download format", zap.String("format", format))
		h.sender.AnswerCallback(msg.CallbackID, render.MsgInvalidCallback)
		return
	}
	h.sender.AnswerCallback(msg.CallbackID, "")

	content, err := f.Format(stored.Title, stored.Answer.Markdown)
	if err != nil {
		ctxzap.Error(ctx, "failed to format answer", zap.Error(err), zap.String("format", format))
		h.sender.Send(msg.ChatID, render.MsgDownloadFailed, nil)
		return
	}

	if err := h.sender.Document(msg.ChatID, "response"+f.FileExtension(), content); err != nil {
		h.sender.Send(msg.ChatID, render.MsgDownloadFailed, nil)
	}
}

func isPDF(doc *tgbotapi.Document) bool {
	return doc.MimeType == pdfMIME || strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
}
