package state

import (
	"sync"
	"testing"
	"time"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewStore(time.Hour, time.Hour)

	got := s.Settings(42)
	assert.Equal(t, DefaultSettings(), got)
	assert.Equal(t, []string{entity.DefaultYearQuarter}, got.YearQuarters)
	assert.Equal(t, entity.ToolMistral, got.Tool)
}

func TestUpdateSettingsIsolatedPerChat(t *testing.T) {
	s := NewStore(time.Hour, time.Hour)

	s.UpdateSettings(1, func(st *Settings) { st.DB = entity.DatabaseManual })

	assert.Equal(t, entity.DatabaseManual, s.Settings(1).DB)
	assert.Equal(t, entity.DatabasePinecone, s.Settings(2).DB)

	s.ResetSettings(1)
	assert.Equal(t, DefaultSettings(), s.Settings(1))
}

func TestSettingsCopyIsNotShared(t *testing.T) {
	s := NewStore(time.Hour, time.Hour)
	s.SaveSettings(1, DefaultSettings())

	got := s.Settings(1)
	got.YearQuarters[0] = "2021_Q1"

	assert.Equal(t, []string{entity.DefaultYearQuarter}, s.Settings(1).YearQuarters)
}

func TestToggleYearQuarter(t *testing.T) {
	st := DefaultSettings()

	st.ToggleYearQuarter("2024_Q4")
	st.ToggleYearQuarter("2021_Q1")
	assert.Equal(t, []string{"2021_Q1", "2024_Q4", "2025_Q1"}, st.YearQuarters)

	st.ToggleYearQuarter("2024_Q4")
	assert.Equal(t, []string{"2021_Q1", "2025_Q1"}, st.YearQuarters)

	st.ToggleYearQuarter("2021_Q1")
	st.ToggleYearQuarter("2025_Q1")
	assert.Equal(t, []string{"2025_Q1"}, st.YearQuarters)
}

func TestAnswersScopedToChat(t *testing.T) {
	s := NewStore(time.Hour, time.Hour)

	id := s.SaveAnswer(7, "Q", entity.Answer{Markdown: "md"})
	got, ok := s.Answer(7, id)
	require.True(t, ok)
	assert.Equal(t, "md", got.Answer.Markdown)
	assert.Equal(t, "Q", got.Title)

	_, ok = s.Answer(8, id)
	assert.False(t, ok)

	_, ok = s.Answer(7, "missing")
	assert.False(t, ok)
}

func TestAnswersExpire(t *testing.T) {
	s := NewStore(time.Hour, 10*time.Millisecond)

	id := s.SaveAnswer(7, "", entity.Answer{Markdown: "md"})
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Answer(7, id)
	assert.False(t, ok)
}

func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	s := NewStore(time.Hour, time.Hour)
	const chatID = 7

	var wg sync.WaitGroup
	for _, yq := range entity.YearQuarters() {
		if yq == entity.DefaultYearQuarter {
			continue
		}
		wg.Add(1)
		go func(yq string) {
			defer wg.Done()
			s.UpdateSettings(chatID, func(st *Settings) { st.ToggleYearQuarter(yq) })
		}(yq)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.UpdateSettings(chatID, func(st *Settings) { st.DB = entity.DatabaseManual })
	}()
	wg.Wait()

	got := s.Settings(chatID)
	assert.Equal(t, entity.YearQuarters(), got.YearQuarters)
	assert.Equal(t, entity.DatabaseManual, got.DB)
}
