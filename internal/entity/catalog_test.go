package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	for _, m := range ModelAliases() {
		id, err := ResolveModel(m.Alias)
		require.NoError(t, err, m.Alias)
		assert.Equal(t, m.BackendID, id)
	}

	_, err := ResolveModel("anthropic/unknown")
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestModelAliasesIsCopy(t *testing.T) {
	models := ModelAliases()
	models[0].BackendID = "tampered"

	id, err := ResolveModel("openai/gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-2024-08-06", id)
}

func TestEnumsValidity(t *testing.T) {
	assert.Len(t, ChunkingStrategies(), 3)
	for _, c := range ChunkingStrategies() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, ChunkingStrategy("paragraph-3").IsValid())

	assert.Len(t, Databases(), 3)
	for _, d := range Databases() {
		assert.True(t, d.IsValid(), d)
	}
	assert.False(t, Database("postgres").IsValid())

	assert.True(t, ModeStructuredReport.IsValid())
	assert.True(t, ModeCustomDocument.IsValid())
	assert.False(t, Mode("nvidia").IsValid())
}

func TestExtractionToolVariant(t *testing.T) {
	result := UploadResult{"urlA", "urlB"}

	assert.Equal(t, 0, ToolDocling.VariantIndex())
	assert.Equal(t, 1, ToolMistral.VariantIndex())
	assert.Equal(t, "urlA", result.Select(ToolDocling))
	assert.Equal(t, "urlB", result.Select(ToolMistral))
}

func TestYearQuarters(t *testing.T) {
	all := YearQuarters()
	require.Len(t, all, 20)
	assert.Equal(t, "2021_Q1", all[0])
	assert.Equal(t, "2025_Q4", all[len(all)-1])
	assert.Contains(t, all, DefaultYearQuarter)
}

func TestParseYearQuarter(t *testing.T) {
	p, err := ParseYearQuarter("2025_Q1")
	require.NoError(t, err)
	assert.Equal(t, ReportPeriod{Year: "2025", Quarter: "1"}, p)
	assert.Equal(t, "2025_Q1", p.String())

	for _, bad := range []string{"", "2025", "2025_Q5", "2019_Q1", "_Q1", "2025_Q"} {
		_, err := ParseYearQuarter(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}
