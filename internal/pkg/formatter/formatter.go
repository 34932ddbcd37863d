package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/rag-query-client/internal/entity"
)

// DefaultTitle heads an exported answer when the caller gives none
const DefaultTitle = "Generated Response"

type Formatter interface {
	Format(title, markdown string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

func titleOrDefault(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle
}

// block is one paragraph-level element of a markdown answer
type block struct {
	heading int // 0 for body text, 1..3 for '#' levels
	bullet  bool
	text    string
}

// parseBlocks splits markdown into headings, bullets and paragraphs.
// Inline emphasis markers are stripped; tables and code stay as plain lines.
func parseBlocks(markdown string) []block {
	var (
		blocks []block
		para   []string
	)

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, block{text: strings.Join(para, " ")})
			para = nil
		}
	}

	for _, raw := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			flush()
			level := len(line) - len(strings.TrimLeft(line, "#"))
			if level > 3 {
				level = 3
			}
			blocks = append(blocks, block{heading: level, text: stripInline(strings.TrimSpace(line[level:]))})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flush()
			blocks = append(blocks, block{bullet: true, text: stripInline(line[2:])})
		case strings.HasPrefix(line, "|"):
			flush()
			blocks = append(blocks, block{text: line})
		default:
			para = append(para, stripInline(line))
		}
	}
	flush()

	return blocks
}

var inlineReplacer = strings.NewReplacer("**", "", "__", "", "`", "")

func stripInline(s string) string {
	return inlineReplacer.Replace(s)
}
