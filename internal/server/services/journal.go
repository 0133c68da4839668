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
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/repomanager"
)

const MaxJournalLength = 10000

type JournalService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
}

func NewJournalService(db *sql.DB, m repomanager.RepositoryManager, storeTimeout time.Duration) *JournalService {
	return &JournalService{db: db, repomanager: m, storeTimeout: storeTimeout}
}

func (s *JournalService) Save(ctx context.Context, userID, content string) (*models.JournalEntry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.WithMessage(common.ErrValidation, "content is required")
	}
	if utf8.RuneCountInString(content) > MaxJournalLength {
		return nil, common.WithMessage(common.ErrValidation,
			fmt.Sprintf("content must be at most %d characters", MaxJournalLength))
	}

	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	entry, err := s.repomanager.Journals(s.db).Create(sctx, &models.JournalEntry{UserID: userID, Content: content})
	if err != nil {
		return nil, fmt.Errorf("error saving journal: %w", err)
	}
	return entry, nil
}

func (s *JournalService) List(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	entries, err := s.repomanager.Journals(s.db).ListByUser(sctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error listing journals: %w", err)
	}
	return entries, nil
}
