package keyboard

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const quartersPerRow = 4

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// SettingsKeyboard shows the current selections, one submenu per row
func (b *Builder) SettingsKeyboard(s state.Settings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Model: "+s.ModelAlias, EncodeCallback(ActionMenu, MenuModel)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✂️ Chunking: "+string(s.ChunkingStrategy), EncodeCallback(ActionMenu, MenuChunking)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗄 Database: "+string(s.DB), EncodeCallback(ActionMenu, MenuDB)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔧 PDF tool: "+string(s.Tool), EncodeCallback(ActionMenu, MenuTool)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📅 Quarters (%d)", len(s.YearQuarters)), EncodeCallback(ActionMenu, MenuQuarters)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♻️ Reset to defaults", EncodeCallback(ActionReset, MenuSettings)),
		),
	)
}

// ModelKeyboard lists model aliases; callbacks carry the catalog index
// since aliases may not fit the 64 byte callback limit.
func (b *Builder) ModelKeyboard(current string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, m := range entity.ModelAliases() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark(m.Alias == current)+m.Alias, EncodeCallback(ActionModel, strconv.Itoa(i))),
		))
	}
	return withBack(rows)
}

func (b *Builder) ChunkingKeyboard(current entity.ChunkingStrategy) tgbotapi.InlineKeyboardMarkup {
	return b.choiceKeyboard(ActionChunking, toStrings(entity.ChunkingStrategies()), string(current))
}

func (b *Builder) DatabaseKeyboard(current entity.Database) tgbotapi.InlineKeyboardMarkup {
	return b.choiceKeyboard(ActionDB, toStrings(entity.Databases()), string(current))
}

func (b *Builder) ToolKeyboard(current entity.ExtractionTool) tgbotapi.InlineKeyboardMarkup {
	return b.choiceKeyboard(ActionTool, toStrings(entity.ExtractionTools()), string(current))
}

// QuartersKeyboard is a multi-select grid of year/quarter tags
func (b *Builder) QuartersKeyboard(selected []string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, yq := range entity.YearQuarters() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(slices.Contains(selected, yq))+yq, EncodeCallback(ActionQuarter, yq)))
		if len(row) == quartersPerRow {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return withBack(rows)
}

// DownloadKeyboard offers the answer as a file in each export format
func (b *Builder) DownloadKeyboard(answerID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 .md", EncodeCallback(ActionDownload, string(entity.FormatMarkdown)+":"+answerID)),
			tgbotapi.NewInlineKeyboardButtonData("📝 .docx", EncodeCallback(ActionDownload, string(entity.FormatDOCX)+":"+answerID)),
			tgbotapi.NewInlineKeyboardButtonData("📕 .pdf", EncodeCallback(ActionDownload, string(entity.FormatPDF)+":"+answerID)),
		),
	)
}

func (b *Builder) choiceKeyboard(action string, values []string, current string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, v := range values {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark(v == current)+v, EncodeCallback(action, v)),
		))
	}
	return withBack(rows)
}

func withBack(rows [][]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", EncodeCallback(ActionMenu, MenuSettings)),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func mark(selected bool) string {
	if selected {
		return "✅ "
	}
	return ""
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
