package validator

import (
	"testing"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
	"github.com/stretchr/testify/assert"
)

func newValidator() *Validator {
	return NewValidator(config.FileUploadConfig{MaxFileSize: 64, MaxUploadSize: 128})
}

func pdf(name string) *entity.FileData {
	return &entity.FileData{Filename: name, Content: []byte("%PDF-1.7 body")}
}

func TestValidatePrompt(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidatePrompt("What was Q1 revenue?"))
	for _, p := range []string{"", "   ", "\n\t "} {
		err := v.ValidatePrompt(p)
		assert.ErrorIs(t, err, entity.ErrEmptyPrompt)
		assert.ErrorIs(t, err, entity.ErrValidation)
	}
}

func TestValidateReportQuery(t *testing.T) {
	v := newValidator()
	valid := entity.ReportQuery{
		ModelAlias:       "openai/gpt-4o",
		Prompt:           "What was Q1 revenue?",
		ChunkingStrategy: entity.ChunkingSentence5,
		DB:               entity.DatabasePinecone,
		YearQuarters:     []string{"2025_Q1"},
	}
	assert.NoError(t, v.ValidateReportQuery(&valid))

	cases := map[string]func(q *entity.ReportQuery){
		"unknown model": func(q *entity.ReportQuery) { q.ModelAlias = "openai/gpt-5" },
		"bad chunking":  func(q *entity.ReportQuery) { q.ChunkingStrategy = "page-1" },
		"bad database":  func(q *entity.ReportQuery) { q.DB = "redis" },
		"no quarters":   func(q *entity.ReportQuery) { q.YearQuarters = nil },
		"bad quarter":   func(q *entity.ReportQuery) { q.YearQuarters = []string{"2030_Q1"} },
		"blank prompt":  func(q *entity.ReportQuery) { q.Prompt = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := valid
			mutate(&q)
			assert.ErrorIs(t, v.ValidateReportQuery(&q), entity.ErrValidation)
		})
	}
}

func TestValidateDocumentQuery(t *testing.T) {
	v := newValidator()
	valid := entity.DocumentQuery{
		File:             pdf("report.pdf"),
		Tool:             entity.ToolDocling,
		ModelAlias:       "gemini/gemini-1.5-pro",
		Prompt:           "Summarize",
		ChunkingStrategy: entity.ChunkingChar1200Over120,
		DB:               entity.DatabaseManual,
	}
	assert.NoError(t, v.ValidateDocumentQuery(&valid))

	noFile := valid
	noFile.File = nil
	assert.ErrorIs(t, v.ValidateDocumentQuery(&noFile), entity.ErrMissingFile)

	badTool := valid
	badTool.Tool = "tesseract"
	assert.ErrorIs(t, v.ValidateDocumentQuery(&badTool), entity.ErrValidation)
}

func TestValidateFile(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateFile(pdf("UPPER.PDF")))
	assert.ErrorIs(t, v.ValidateFile(pdf("notes.docx")), entity.ErrInvalidFile)
	assert.ErrorIs(t, v.ValidateFile(&entity.FileData{Filename: "fake.pdf", Content: []byte("hello")}), entity.ErrInvalidFile)

	big := &entity.FileData{Filename: "big.pdf", Content: append([]byte("%PDF-"), make([]byte, 100)...)}
	assert.ErrorIs(t, v.ValidateFile(big), entity.ErrFileTooLarge)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Q1_report_final.pdf", SanitizeFilename("../tmp/Q1 report (final).pdf"))
}
