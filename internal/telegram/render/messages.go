package render

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/futig/rag-query-client/internal/pkg/errkind"
	"github.com/futig/rag-query-client/internal/telegram/state"
)

// Telegram rejects longer text messages
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! I answer questions over financial reports and your own PDFs.

• Send a question as text to search the report corpus for the selected quarters.
• Send a PDF with your question as the caption to ask about that document.
• Use /settings to pick the model, database, chunking strategy, PDF tool and quarters.`

	MsgHelp = `🤖 Commands:

/start - Introduction
/settings - Choose model, database, chunking, PDF tool and quarters
/help - Show this help

Text message: report query over the selected quarters.
PDF + caption: upload, index and query the document.
Answers come with buttons to download them as .md, .docx or .pdf.`

	MsgProcessing         = "⏳ Working on it, this can take a minute..."
	MsgProcessingPDF      = "⏳ Uploading and indexing the document, this can take a few minutes..."
	MsgSettingsSaved      = "✅ Saved"
	MsgSettingsReset      = "♻️ Settings reset"
	MsgChooseModel        = "🤖 Choose a model:"
	MsgChooseChunking     = "✂️ Choose a chunking strategy:"
	MsgChooseDB           = "🗄 Choose a database:"
	MsgChooseTool         = "🔧 Choose the PDF extraction tool:"
	MsgChooseQuarters     = "📅 Toggle the quarters to search:"
	MsgNotPDF             = "📎 Only PDF documents are supported."
	MsgUnknownCommand     = "❓ Unknown command. Use /help"
	MsgAnswerExpired      = "⌛ This answer is no longer available. Ask again to download it."
	MsgDownloadFailed     = "❌ Could not prepare the file"
	MsgFileDownloadFailed = "❌ Could not fetch the file from Telegram. Please send it again."
	MsgInvalidCallback    = "❌ Invalid button"
	MsgRateLimited        = "⚠️ Too many requests. Please wait a little."
	MsgPanic              = "❌ Something broke. Please try again."
	MsgSourcePrefix       = "Source: "
	AnswerTitle           = "Generated Response"
	ErrGeneric            = errkind.MsgInternalFailure
)

// Settings renders the current selections
func Settings(s state.Settings) string {
	return fmt.Sprintf(`⚙️ Current settings

Model: %s
Chunking: %s
Database: %s
PDF tool: %s
Quarters: %s`,
		s.ModelAlias, s.ChunkingStrategy, s.DB, s.Tool, strings.Join(s.YearQuarters, ", "))
}

// Error returns the user-facing text for a failed query
func Error(err error) string {
	c := errkind.Classify(err)
	switch c.Kind {
	case errkind.KindValidation:
		return "⚠️ " + c.Message
	case errkind.KindTimeout:
		return "⏱ " + c.Message
	default:
		return "❌ " + c.Message
	}
}

// SplitMessage cuts text into Telegram sized chunks, preferring line breaks.
// Telegram measures the limit in UTF-16 code units, so emoji count twice.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}

	var parts []string
	for utf16Len(text) > limit {
		cut := utf16Offset(text, limit)
		if nl := strings.LastIndex(text[:cut], "\n"); nl > 0 {
			cut = nl + 1
		}
		parts = append(parts, strings.TrimRight(text[:cut], "\n"))
		text = text[cut:]
	}
	if strings.TrimSpace(text) != "" || len(parts) == 0 {
		parts = append(parts, text)
	}
	return parts
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16Offset returns the byte offset of the longest prefix that fits in limit
// code units. At least one rune is always taken.
func utf16Offset(s string, limit int) int {
	units := 0
	for pos, r := range s {
		units += utf16.RuneLen(r)
		if units > limit {
			if pos == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return size
			}
			return pos
		}
	}
	return len(s)
}
