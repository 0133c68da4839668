package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/journals"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/users"
)

// fakeUsersRepo is an in-memory credential store keyed by id.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	seq     int
	findErr error
	calls   int
	lastCtx context.Context
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCtx = ctx
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, common.WithMessage(common.ErrDuplicateKey, "username is already taken")
		}
		if existing.Email == u.Email {
			return nil, common.WithMessage(common.ErrDuplicateKey, "email is already registered")
		}
	}
	f.seq++
	cp := *u
	cp.ID = fmt.Sprintf("u-%d", f.seq)
	cp.CreatedAt = time.Now().UTC()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeMoodsRepo struct {
	entries   []models.MoodEntry
	createErr error
	lastLimit int
}

func (f *fakeMoodsRepo) Create(ctx context.Context, e *models.MoodEntry) (*models.MoodEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = fmt.Sprintf("m-%d", len(f.entries)+1)
	e.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, *e)
	return e, nil
}

func (f *fakeMoodsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	f.lastLimit = limit
	out := make([]models.MoodEntry, 0)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakeJournalsRepo struct {
	entries   []models.JournalEntry
	createErr error
	listErr   error
}

func (f *fakeJournalsRepo) Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = fmt.Sprintf("j-%d", len(f.entries)+1)
	e.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, *e)
	return e, nil
}

func (f *fakeJournalsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.JournalEntry, 0)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	m *fakeMoodsRepo
	j *fakeJournalsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), m: &fakeMoodsRepo{}, j: &fakeJournalsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Moods(db dbx.DBTX) moods.Repository         { return m.m }
func (m *fakeRepoManager) Journals(db dbx.DBTX) journals.Repository   { return m.j }
