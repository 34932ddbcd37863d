package entity

// QARequest is the body of POST /qa. Field order matches the backend contract.
type QARequest struct {
	URL              *string          `json:"url"`
	Model            string           `json:"model"`
	Mode             Mode             `json:"mode"`
	Prompt           string           `json:"prompt"`
	ChunkingStrategy ChunkingStrategy `json:"chunking_strategy"`
	DB               Database         `json:"db"`
	SearchParams     []ScopeFilter    `json:"search_params"`
}

// QAResponse is the body of a /qa reply. A nil Markdown means the backend
// answered without a result.
type QAResponse struct {
	Markdown *string `json:"markdown"`
}

// IndexRequest is the body of POST /index
type IndexRequest struct {
	URL              string           `json:"url"`
	ChunkingStrategy ChunkingStrategy `json:"chunking_strategy"`
	DB               Database         `json:"db"`
}

// IndexAck is whatever the backend returns from /index; it is never interpreted
type IndexAck []byte

// UploadResponse is the body of a /upload_pdf reply
type UploadResponse struct {
	URL []string `json:"url"`
}

// UploadResult holds the two artifacts derived from one uploaded file,
// indexed by ExtractionTool.VariantIndex.
type UploadResult [2]string

// Select returns the artifact URL produced by the given tool
func (r UploadResult) Select(tool ExtractionTool) string {
	return r[tool.VariantIndex()]
}

// Answer is a successful query result as shown to the user
type Answer struct {
	Markdown  string `json:"markdown"`
	SourceURL string `json:"source_url,omitempty"`
}

// FileData is an uploaded file held in memory
type FileData struct {
	Filename string
	Content  []byte
}
