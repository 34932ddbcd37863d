package validator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf": true,
}

var pdfMagic = []byte("%PDF-")

// Validator checks user input before anything is sent to the backend
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidatePrompt rejects empty and whitespace-only prompts
func (v *Validator) ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return entity.ErrEmptyPrompt
	}
	return nil
}

// ValidateSettings checks every enumerated selection
func (v *Validator) ValidateSettings(modelAlias string, chunking entity.ChunkingStrategy, db entity.Database) error {
	if _, err := entity.ResolveModel(modelAlias); err != nil {
		return err
	}
	if !chunking.IsValid() {
		return fmt.Errorf("%w: chunking strategy %q", entity.ErrValidation, chunking)
	}
	if !db.IsValid() {
		return fmt.Errorf("%w: database %q", entity.ErrValidation, db)
	}
	return nil
}

// ValidateReportQuery checks a structured-report query
func (v *Validator) ValidateReportQuery(q *entity.ReportQuery) error {
	if err := v.ValidatePrompt(q.Prompt); err != nil {
		return err
	}
	if err := v.ValidateSettings(q.ModelAlias, q.ChunkingStrategy, q.DB); err != nil {
		return err
	}
	if len(q.YearQuarters) == 0 {
		return fmt.Errorf("%w: at least one year-quarter is required", entity.ErrValidation)
	}
	for _, yq := range q.YearQuarters {
		if _, err := entity.ParseYearQuarter(yq); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDocumentQuery checks a custom-document query, file included
func (v *Validator) ValidateDocumentQuery(q *entity.DocumentQuery) error {
	if q.File == nil || len(q.File.Content) == 0 {
		return entity.ErrMissingFile
	}
	if err := v.ValidatePrompt(q.Prompt); err != nil {
		return err
	}
	if err := v.ValidateSettings(q.ModelAlias, q.ChunkingStrategy, q.DB); err != nil {
		return err
	}
	if !q.Tool.IsValid() {
		return fmt.Errorf("%w: extraction tool %q", entity.ErrValidation, q.Tool)
	}
	return v.ValidateFile(q.File)
}

// ValidateFile checks extension, size and PDF signature
func (v *Validator) ValidateFile(file *entity.FileData) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %q (allowed: pdf)", entity.ErrInvalidFile, ext)
	}

	if size := int64(len(file.Content)); size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, file.Filename, size, v.cfg.MaxFileSize)
	}

	if !bytes.HasPrefix(file.Content, pdfMagic) {
		return fmt.Errorf("%w: '%s' is not a PDF document", entity.ErrInvalidFile, file.Filename)
	}

	return nil
}

// SanitizeFilename sanitizes a filename before it is sent upstream
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
