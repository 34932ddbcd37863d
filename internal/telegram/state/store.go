package state

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Settings are the per-chat query selections changed through /settings
type Settings struct {
	ModelAlias       string
	ChunkingStrategy entity.ChunkingStrategy
	DB               entity.Database
	Tool             entity.ExtractionTool
	YearQuarters     []string
}

// DefaultSettings mirrors the web UI defaults
func DefaultSettings() Settings {
	return Settings{
		ModelAlias:       entity.DefaultModelAlias(),
		ChunkingStrategy: entity.ChunkingStrategies()[0],
		DB:               entity.Databases()[0],
		Tool:             entity.ExtractionTools()[0],
		YearQuarters:     []string{entity.DefaultYearQuarter},
	}
}

// ToggleYearQuarter adds or removes a quarter, keeping catalog order.
// The last remaining quarter cannot be removed.
func (s *Settings) ToggleYearQuarter(yq string) {
	if i := slices.Index(s.YearQuarters, yq); i >= 0 {
		if len(s.YearQuarters) > 1 {
			s.YearQuarters = slices.Delete(slices.Clone(s.YearQuarters), i, i+1)
		}
		return
	}

	selected := append(slices.Clone(s.YearQuarters), yq)
	ordered := make([]string, 0, len(selected))
	for _, q := range entity.YearQuarters() {
		if slices.Contains(selected, q) {
			ordered = append(ordered, q)
		}
	}
	s.YearQuarters = ordered
}

// StoredAnswer is an answer kept around for the download buttons
type StoredAnswer struct {
	ChatID int64
	Title  string
	Answer entity.Answer
}

// Store keeps chat state in memory; entries expire after their TTL
type Store struct {
	// serializes settings writes so concurrent callbacks of one chat don't lose updates
	mu       sync.Mutex
	settings *cache.Cache
	answers  *cache.Cache
}

func NewStore(settingsTTL, answerTTL time.Duration) *Store {
	return &Store{
		settings: cache.New(settingsTTL, cleanupInterval(settingsTTL)),
		answers:  cache.New(answerTTL, cleanupInterval(answerTTL)),
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Minute
	}
	return ttl / 2
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Settings returns the chat's settings, or defaults when none are stored
func (s *Store) Settings(chatID int64) Settings {
	if v, ok := s.settings.Get(chatKey(chatID)); ok {
		stored := v.(Settings)
		stored.YearQuarters = slices.Clone(stored.YearQuarters)
		return stored
	}
	return DefaultSettings()
}

func (s *Store) SaveSettings(chatID int64, settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSettings(chatID, settings)
}

func (s *Store) saveSettings(chatID int64, settings Settings) {
	settings.YearQuarters = slices.Clone(settings.YearQuarters)
	s.settings.SetDefault(chatKey(chatID), settings)
}

// UpdateSettings applies fn to the chat's settings and stores the result atomically
func (s *Store) UpdateSettings(chatID int64, fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.Settings(chatID)
	fn(&settings)
	s.saveSettings(chatID, settings)
	return settings
}

func (s *Store) ResetSettings(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Delete(chatKey(chatID))
}

// SaveAnswer stores an answer and returns the id used in download callbacks
func (s *Store) SaveAnswer(chatID int64, title string, answer entity.Answer) string {
	id := uuid.NewString()
	s.answers.SetDefault(id, StoredAnswer{ChatID: chatID, Title: title, Answer: answer})
	return id
}

// Answer returns a stored answer only to the chat that produced it
func (s *Store) Answer(chatID int64, id string) (StoredAnswer, bool) {
	v, ok := s.answers.Get(id)
	if !ok {
		return StoredAnswer{}, false
	}
	stored := v.(StoredAnswer)
	if stored.ChatID != chatID {
		return StoredAnswer{}, false
	}
	return stored, true
}
