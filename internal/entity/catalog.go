package entity

import (
	"fmt"
	"strings"
)

// ModelAlias pairs a human-facing model name with the id the backend expects
type ModelAlias struct {
	Alias     string `json:"alias"`
	BackendID string `json:"backend_id"`
}

// modelAliases is the fixed alias table. Order is the order shown to users.
var modelAliases = [...]ModelAlias{
	{Alias: "openai/gpt-4o", BackendID: "gpt-4o-2024-08-06"},
	{Alias: "openai/gpt-3.5-turbo", BackendID: "gpt-3.5-turbo-0125"},
	{Alias: "openai/gpt-4", BackendID: "gpt-4-0613"},
	{Alias: "openai/gpt-4o-mini", BackendID: "gpt-4o-mini-2024-07-18"},
	{Alias: "gemini/gemini-1.5-pro", BackendID: "gemini/gemini-1.5-pro"},
	{Alias: "gemini/gemini-2.0-flash-lite", BackendID: "gemini/gemini-2.0-flash-lite"},
}

// ModelAliases returns a copy of the alias table in display order
func ModelAliases() []ModelAlias {
	out := make([]ModelAlias, len(modelAliases))
	copy(out, modelAliases[:])
	return out
}

// ResolveModel maps an alias to its backend model id
func ResolveModel(alias string) (string, error) {
	for _, m := range modelAliases {
		if m.Alias == alias {
			return m.BackendID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, alias)
}

// DefaultModelAlias is preselected in every front end
func DefaultModelAlias() string {
	return modelAliases[0].Alias
}

type ChunkingStrategy string

const (
	ChunkingSentence5       ChunkingStrategy = "sentence-5"
	ChunkingWord400Over40   ChunkingStrategy = "word-400-overlap-40"
	ChunkingChar1200Over120 ChunkingStrategy = "char-1200-overlap-120"
)

// ChunkingStrategies lists the recognized encodings in display order
func ChunkingStrategies() []ChunkingStrategy {
	return []ChunkingStrategy{ChunkingSentence5, ChunkingWord400Over40, ChunkingChar1200Over120}
}

func (c ChunkingStrategy) IsValid() bool {
	switch c {
	case ChunkingSentence5, ChunkingWord400Over40, ChunkingChar1200Over120:
		return true
	default:
		return false
	}
}

type Database string

const (
	DatabasePinecone Database = "pinecone"
	DatabaseChromaDB Database = "chromadb"
	DatabaseManual   Database = "manual"
)

// Databases lists the storage targets in display order
func Databases() []Database {
	return []Database{DatabasePinecone, DatabaseChromaDB, DatabaseManual}
}

func (d Database) IsValid() bool {
	switch d {
	case DatabasePinecone, DatabaseChromaDB, DatabaseManual:
		return true
	default:
		return false
	}
}

// Mode tells the backend which corpus a query runs over
type Mode string

const (
	ModeStructuredReport Mode = "structured-report" // curated year/quarter documents
	ModeCustomDocument   Mode = "custom-document"   // a single uploaded file
)

func (m Mode) IsValid() bool {
	return m == ModeStructuredReport || m == ModeCustomDocument
}

// ExtractionTool selects one of the two artifacts produced by an upload
type ExtractionTool string

const (
	ToolDocling ExtractionTool = "docling"
	ToolMistral ExtractionTool = "mistral"
)

// ExtractionTools lists the tools in display order
func ExtractionTools() []ExtractionTool {
	return []ExtractionTool{ToolMistral, ToolDocling}
}

func (t ExtractionTool) IsValid() bool {
	return t == ToolDocling || t == ToolMistral
}

// VariantIndex returns the position of this tool's artifact in an UploadResult
func (t ExtractionTool) VariantIndex() int {
	if t == ToolDocling {
		return 0
	}
	return 1
}

const (
	firstReportYear = 2021
	lastReportYear  = 2025

	// DefaultYearQuarter is preselected on the report page
	DefaultYearQuarter = "2025_Q1"
)

// YearQuarters lists every selectable report period as "YYYY_Qn"
func YearQuarters() []string {
	out := make([]string, 0, (lastReportYear-firstReportYear+1)*4)
	for year := firstReportYear; year <= lastReportYear; year++ {
		for q := 1; q <= 4; q++ {
			out = append(out, fmt.Sprintf("%d_Q%d", year, q))
		}
	}
	return out
}

// ParseYearQuarter turns "2025_Q1" into a ReportPeriod
func ParseYearQuarter(s string) (ReportPeriod, error) {
	s = strings.TrimSpace(s)
	year, qtr, ok := strings.Cut(s, "_Q")
	if !ok || year == "" || qtr == "" {
		return ReportPeriod{}, fmt.Errorf("%w: year-quarter %q", ErrValidation, s)
	}

	for _, known := range YearQuarters() {
		if known == s {
			return ReportPeriod{Year: year, Quarter: qtr}, nil
		}
	}

	return ReportPeriod{}, fmt.Errorf("%w: year-quarter %q is out of range", ErrValidation, s)
}
