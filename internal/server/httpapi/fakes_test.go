package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/logging"
	"github.com/dmitrijs2005/mindease/internal/server/auth"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/services"
)

type fakeUsers struct {
	mu           sync.Mutex
	tokens       *auth.TokenIssuer
	byID         map[string]*models.User
	passwords    map[string]string
	seq          int
	resolveCalls int
	resolveErr   error
	registerErr  error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		tokens:    auth.NewTokenIssuer([]byte("test-secret"), common.TokenValidity),
		byID:      map[string]*models.User{},
		passwords: map[string]string{},
	}
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*services.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if username == "" {
		return nil, common.WithMessage(common.ErrValidation, "username is required")
	}
	for _, u := range f.byID {
		if u.Email == email {
			return nil, common.WithMessage(common.ErrDuplicateKey, "email is already registered")
		}
	}
	f.seq++
	u := &models.User{ID: fmt.Sprintf("u-%d", f.seq), UserName: username, Email: email}
	f.byID[u.ID] = u
	f.passwords[u.ID] = password
	tok, err := f.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &services.Session{Token: tok, User: u}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.byID {
		if u.Email == email && f.passwords[id] == password {
			tok, err := f.tokens.Issue(id)
			if err != nil {
				return nil, err
			}
			return &services.Session{Token: tok, User: u}, nil
		}
	}
	return nil, common.ErrInvalidCredentials
}

func (f *fakeUsers) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	id, err := f.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return u, nil
}

type fakeMoods struct {
	mu      sync.Mutex
	entries []models.MoodEntry
	err     error
}

func (f *fakeMoods) Track(ctx context.Context, userID string, mood models.Mood, note string) (*services.MoodResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !mood.Valid() {
		return nil, common.WithMessage(common.ErrValidation, "mood must be one of awful, meh, ok, good, great")
	}
	e := models.MoodEntry{ID: fmt.Sprintf("m-%d", len(f.entries)+1), UserID: userID, Mood: mood, Note: note, CreatedAt: time.Now()}
	f.entries = append(f.entries, e)
	return &services.MoodResult{Entry: &e, Message: "Your " + string(mood) + " mood was recorded", Tips: services.TipsFor(mood)}, nil
}

func (f *fakeMoods) List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MoodEntry, 0)
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeJournals struct {
	mu        sync.Mutex
	entries   []models.JournalEntry
	err       error
	lastLimit int
}

func (f *fakeJournals) Save(ctx context.Context, userID, content string) (*models.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e := models.JournalEntry{ID: fmt.Sprintf("j-%d", len(f.entries)+1), UserID: userID, Content: content, CreatedAt: time.Now()}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeJournals) List(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := make([]models.JournalEntry, 0)
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCompanion struct {
	reply string
	err   error
}

func (f *fakeCompanion) Reply(ctx context.Context, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeWellness struct{}

func (fakeWellness) Snapshot(ctx context.Context) (*services.WellnessSnapshot, error) {
	return &services.WellnessSnapshot{Steps: 4200, HeartRate: 70, SleepHours: "7.2",
		LastUpdated: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testEnv struct {
	srv       *Server
	users     *fakeUsers
	moods     *fakeMoods
	journals  *fakeJournals
	companion *fakeCompanion
	pinger    *fakePinger
}

func newTestEnv(opts ...func(*Options)) *testEnv {
	return newTestEnvWithLogger(logging.NopLogger{}, opts...)
}

func newTestEnvWithLogger(l logging.Logger, opts ...func(*Options)) *testEnv {
	env := &testEnv{
		users:     newFakeUsers(),
		moods:     &fakeMoods{},
		journals:  &fakeJournals{},
		companion: &fakeCompanion{reply: "You are not alone."},
		pinger:    &fakePinger{},
	}
	o := Options{CORSOrigins: []string{"*"}, AuthRateLimit: 1000, AuthRateBurst: 1000}
	for _, fn := range opts {
		fn(&o)
	}
	env.srv = NewServer("127.0.0.1:0", l, Services{
		Users:     env.users,
		Moods:     env.moods,
		Journals:  env.journals,
		Companion: env.companion,
		Wellness:  fakeWellness{},
		Health:    env.pinger,
	}, o)
	return env
}
