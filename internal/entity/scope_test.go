package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFilterJSON(t *testing.T) {
	filters := []ScopeFilter{
		ReportPeriod{Year: "2024", Quarter: "3"},
		SourceRef{URL: "https://example.com/doc.md"},
	}

	data, err := json.Marshal(filters)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"year":"2024","qtr":"3"},{"src":"https://example.com/doc.md"}]`, string(data))
}

func TestQARequestWireFormat(t *testing.T) {
	req := QARequest{
		URL:              nil,
		Model:            "gpt-4o-2024-08-06",
		Mode:             ModeStructuredReport,
		Prompt:           "What was Q1 revenue?",
		ChunkingStrategy: ChunkingSentence5,
		DB:               DatabasePinecone,
		SearchParams:     []ScopeFilter{ReportPeriod{Year: "2025", Quarter: "1"}},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	want := `{"url":null,"model":"gpt-4o-2024-08-06","mode":"structured-report","prompt":"What was Q1 revenue?","chunking_strategy":"sentence-5","db":"pinecone","search_params":[{"year":"2025","qtr":"1"}]}`
	assert.Equal(t, want, string(data))
}

func TestQAResponseMissingMarkdown(t *testing.T) {
	var resp QAResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"boom"}`), &resp))
	assert.Nil(t, resp.Markdown)

	require.NoError(t, json.Unmarshal([]byte(`{"markdown":""}`), &resp))
	require.NotNil(t, resp.Markdown)
	assert.Equal(t, "", *resp.Markdown)
}
