// Package cli is the interactive MindEase terminal client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mindease/internal/client/api"
	"github.com/dmitrijs2005/mindease/internal/client/config"
	"github.com/dmitrijs2005/mindease/internal/client/session"
	"github.com/dmitrijs2005/mindease/internal/server/models"
)

var errNotLoggedIn = errors.New("not logged in")

type apiClient interface {
	Register(ctx context.Context, username, email, password string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	TrackMood(ctx context.Context, token, mood, note string) (*api.MoodResult, error)
	ListMoods(ctx context.Context, token string, limit int) ([]models.MoodEntry, error)
	SaveJournal(ctx context.Context, token, content string) (string, error)
	ListJournals(ctx context.Context, token string, limit int) ([]models.JournalEntry, error)
	Chat(ctx context.Context, token, message string) (string, error)
	Wellness(ctx context.Context, token string) (*api.Wellness, error)
	Ping(ctx context.Context) error
}

type sessionStore interface {
	Save(ctx context.Context, token string, user models.PublicProfile) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api     apiClient
	store   sessionStore
	session *session.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("error opening session store: %w", err)
	}

	client := api.NewClient(c.ServerURL, c.RequestTimeout)

	return newApp(client, store, os.Stdin, os.Stdout), nil
}

func newApp(client apiClient, store sessionStore, in io.Reader, out io.Writer) *App {
	return &App{api: client, store: store, reader: bufio.NewReader(in), out: out}
}

// Run restores a saved session and starts the command loop.
func (a *App) Run(ctx context.Context) error {
	defer a.store.Close()

	sess, err := a.store.Load(ctx)
	switch {
	case err == nil:
		a.session = sess
	case !errors.Is(err, session.ErrNoSession):
		return err
	}

	if err := a.api.Ping(ctx); err != nil {
		a.println("Warning: server is not reachable:", err)
	}

	a.println("Welcome to MindEase (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) status() string {
	if a.session == nil {
		return ""
	}
	return "(" + a.session.User.UserName + ")"
}

func (a *App) println(v ...any) {
	fmt.Fprintln(a.out, v...)
}

// report prints err for the user. A 401 means the saved token is no longer
// accepted, so the session is dropped.
func (a *App) report(ctx context.Context, err error) error {
	if api.IsUnauthorized(err) && a.session != nil {
		a.session = nil
		_ = a.store.Clear(ctx)
		a.println("Your session has expired, please login again")
		return err
	}
	a.println("Error:", err)
	return err
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		a.println("Please login first")
		return errNotLoggedIn
	}
	return nil
}

func (a *App) startSession(ctx context.Context, res *api.AuthResult) error {
	if err := a.store.Save(ctx, res.Token, res.User); err != nil {
		return a.report(ctx, err)
	}
	a.session = &session.Session{Token: res.Token, User: res.User}
	a.println(fmt.Sprintf("Welcome, %s!", res.User.UserName))
	return nil
}

func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := GetSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	res, err := a.api.Register(ctx, username, email, string(pw))
	clear(pw)
	if err != nil {
		return a.report(ctx, err)
	}
	return a.startSession(ctx, res)
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	res, err := a.api.Login(ctx, email, string(pw))
	clear(pw)
	if err != nil {
		return a.report(ctx, err)
	}
	return a.startSession(ctx, res)
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session = nil
	if err := a.store.Clear(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.println("Logged out")
	return nil
}

func (a *App) Mood(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var mood, note string
	if len(args) > 0 {
		mood = args[0]
		note = strings.Join(args[1:], " ")
	} else {
		var err error
		opts := make([]string, len(models.Moods))
		for i, m := range models.Moods {
			opts[i] = string(m)
		}
		mood, err = GetSimpleText(a.reader, "How are you feeling? ("+strings.Join(opts, ", ")+")", a.out)
		if err != nil {
			return a.report(ctx, err)
		}
		note, err = GetSimpleText(a.reader, "Add a note (optional)", a.out)
		if err != nil {
			return a.report(ctx, err)
		}
	}

	res, err := a.api.TrackMood(ctx, a.session.Token, mood, note)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println(res.Message)
	for _, tip := range res.Tips {
		a.println("  -", tip)
	}
	return nil
}

func (a *App) Moods(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	limit, err := limitArg(args)
	if err != nil {
		return a.report(ctx, err)
	}

	entries, err := a.api.ListMoods(ctx, a.session.Token, limit)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(entries) == 0 {
		a.println("No moods recorded yet")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-5s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Mood)
		if e.Note != "" {
			line += "  " + e.Note
		}
		a.println(line)
	}
	return nil
}

func (a *App) Journal(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Write your journal entry", a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	msg, err := a.api.SaveJournal(ctx, a.session.Token, content)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println(msg)
	return nil
}

func (a *App) Journals(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	limit, err := limitArg(args)
	if err != nil {
		return a.report(ctx, err)
	}

	entries, err := a.api.ListJournals(ctx, a.session.Token, limit)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(entries) == 0 {
		a.println("No journal entries yet")
		return nil
	}
	for _, e := range entries {
		a.println("--", e.CreatedAt.Local().Format("2006-01-02 15:04"))
		a.println(e.Content)
	}
	return nil
}

func (a *App) Chat(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	msg := strings.Join(args, " ")
	if msg == "" {
		var err error
		msg, err = GetSimpleText(a.reader, "What's on your mind?", a.out)
		if err != nil {
			return a.report(ctx, err)
		}
	}

	reply, err := a.api.Chat(ctx, a.session.Token, msg)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println("MindEase:", reply)
	return nil
}

func (a *App) Wellness(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	w, err := a.api.Wellness(ctx, a.session.Token)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println("Steps:      ", w.Steps)
	a.println("Heart rate: ", w.HeartRate, "bpm")
	a.println("Sleep:      ", w.SleepHours, "h")
	a.println("Updated:    ", w.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func limitArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid count %q", args[0])
	}
	return n, nil
}
