package entity

// QueryInput is a fully specified /qa call before alias resolution
type QueryInput struct {
	SourceURL        *string
	ModelAlias       string
	Prompt           string
	ChunkingStrategy ChunkingStrategy
	DB               Database
	Scope            []ScopeFilter
	Mode             Mode
}

// ReportQuery is a query over the curated year/quarter report corpus
type ReportQuery struct {
	ModelAlias       string           `json:"model"`
	Prompt           string           `json:"prompt"`
	ChunkingStrategy ChunkingStrategy `json:"chunking_strategy"`
	DB               Database         `json:"db"`
	YearQuarters     []string         `json:"year_quarters"`
}

// DocumentQuery uploads a file, indexes one of its artifacts and queries it
type DocumentQuery struct {
	File             *FileData
	Tool             ExtractionTool
	ModelAlias       string
	Prompt           string
	ChunkingStrategy ChunkingStrategy
	DB               Database
}

// Options is everything a front end needs to render its selectors
type Options struct {
	Models             []ModelAlias       `json:"models"`
	ChunkingStrategies []ChunkingStrategy `json:"chunking_strategies"`
	Databases          []Database         `json:"databases"`
	Tools              []ExtractionTool   `json:"tools"`
	YearQuarters       []string           `json:"year_quarters"`
	DefaultYearQuarter string             `json:"default_year_quarter"`
}

// CurrentOptions builds Options from the static catalogs
func CurrentOptions() Options {
	return Options{
		Models:             ModelAliases(),
		ChunkingStrategies: ChunkingStrategies(),
		Databases:          Databases(),
		Tools:              ExtractionTools(),
		YearQuarters:       YearQuarters(),
		DefaultYearQuarter: DefaultYearQuarter,
	}
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
