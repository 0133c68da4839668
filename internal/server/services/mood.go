package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/metrics"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/repomanager"
)

const (
	DefaultListLimit  = 50
	MaxListLimit      = 200
	MaxMoodNoteLength = 500
)

var moodTips = map[models.Mood][]string{
	models.MoodAwful: {"Try deep breathing for 5 minutes", "Reach out to a friend"},
	models.MoodMeh:   {"Go for a short walk", "Listen to uplifting music"},
	models.MoodOK:    {"Journal about your day", "Do something creative"},
	models.MoodGood:  {"Savor this moment", "Share your positivity with others"},
	models.MoodGreat: {"Celebrate small wins!", "Plan something fun"},
}

// TipsFor returns a copy of the suggestions for mood, or nil for an
// unknown mood.
func TipsFor(mood models.Mood) []string {
	tips, ok := moodTips[mood]
	if !ok {
		return nil
	}
	return append([]string(nil), tips...)
}

type MoodResult struct {
	Entry   *models.MoodEntry
	Message string
	Tips    []string
}

type MoodService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
}

func NewMoodService(db *sql.DB, m repomanager.RepositoryManager, storeTimeout time.Duration) *MoodService {
	return &MoodService{db: db, repomanager: m, storeTimeout: storeTimeout}
}

// Track records mood for userID and returns the tips that go with it.
func (s *MoodService) Track(ctx context.Context, userID string, mood models.Mood, note string) (*MoodResult, error) {
	if !mood.Valid() {
		return nil, common.WithMessage(common.ErrValidation, "mood must be one of awful, meh, ok, good, great")
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxMoodNoteLength {
		return nil, common.WithMessage(common.ErrValidation,
			fmt.Sprintf("note must be at most %d characters", MaxMoodNoteLength))
	}

	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	entry, err := s.repomanager.Moods(s.db).Create(sctx, &models.MoodEntry{UserID: userID, Mood: mood, Note: note})
	if err != nil {
		return nil, fmt.Errorf("error saving mood: %w", err)
	}
	metrics.RecordMood(string(mood))

	return &MoodResult{
		Entry:   entry,
		Message: fmt.Sprintf("Your %s mood was recorded", mood),
		Tips:    TipsFor(mood),
	}, nil
}

func (s *MoodService) List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	entries, err := s.repomanager.Moods(s.db).ListByUser(sctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error listing moods: %w", err)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
