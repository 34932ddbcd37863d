package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/futig/rag-query-client/internal/entity"
)

// Field names shared by the HTML forms and the multipart API
const (
	FieldModel        = "model"
	FieldPrompt       = "prompt"
	FieldChunking     = "chunking_strategy"
	FieldDB           = "db"
	FieldYearQuarters = "year_quarters"
	FieldTool         = "tool"
	FieldFile         = "file"
)

// multipart parts beyond this stay on disk
const maxFormMemory = 32 << 20

// ParseReportForm reads a report query from an urlencoded or multipart form
func ParseReportForm(r *http.Request) (*entity.ReportQuery, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("%w: invalid form: %v", entity.ErrValidation, err)
	}

	return &entity.ReportQuery{
		ModelAlias:       r.PostFormValue(FieldModel),
		Prompt:           r.PostFormValue(FieldPrompt),
		ChunkingStrategy: entity.ChunkingStrategy(r.PostFormValue(FieldChunking)),
		DB:               entity.Database(r.PostFormValue(FieldDB)),
		YearQuarters:     nonEmpty(r.PostForm[FieldYearQuarters]),
	}, nil
}

// ParseDocumentForm reads a document query from a multipart form.
// A missing file part yields a query with a nil File; the validator reports it.
func ParseDocumentForm(w http.ResponseWriter, r *http.Request, maxUploadSize int64) (*entity.DocumentQuery, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", entity.ErrFileTooLarge, maxErr.Limit)
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("%w: invalid form: %v", entity.ErrValidation, err)
		}
	}

	q := &entity.DocumentQuery{
		Tool:             entity.ExtractionTool(r.FormValue(FieldTool)),
		ModelAlias:       r.FormValue(FieldModel),
		Prompt:           r.FormValue(FieldPrompt),
		ChunkingStrategy: entity.ChunkingStrategy(r.FormValue(FieldChunking)),
		DB:               entity.Database(r.FormValue(FieldDB)),
	}

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return q, nil
		}
		return nil, fmt.Errorf("%w: read file part: %v", entity.ErrInvalidFile, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read file part: %v", entity.ErrInvalidFile, err)
	}

	q.File = &entity.FileData{
		Filename: header.Filename,
		Content:  content,
	}

	return q, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
