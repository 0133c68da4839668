package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/server/metrics"
	"github.com/dmitrijs2005/mindease/internal/server/models"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

type registerRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

type moodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

type moodResponse struct {
	Message string   `json:"message"`
	Tips    []string `json:"tips"`
}

type journalRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type entriesResponse[T any] struct {
	Entries []T `json:"entries"`
}

// decodeBody reads a single JSON object into dst. Unknown fields are
// ignored; trailing data is not.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return common.WithMessage(common.ErrValidation, msgBadBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return common.WithMessage(common.ErrValidation, msgBadBody)
	}
	return nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, common.WithMessage(common.ErrValidation, "limit must be a positive integer")
	}
	return n, nil
}

// currentUser is only called behind the gate; a missing identity means the
// route was wired without it.
func currentUser(r *http.Request) *models.User {
	u, ok := UserFromContext(r.Context())
	if !ok {
		panic("httpapi: protected handler reached without an identity")
	}
	return u
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err, "Registration failed")
		return
	}

	sess, err := s.users.Register(r.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		metrics.RecordAuth("register", outcome(err))
		s.writeError(w, r, err, "Registration failed")
		return
	}
	metrics.RecordAuth("register", "ok")

	requestLogger(r.Context(), s.logger).Info(r.Context(), "Registered", "user_id", sess.User.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: sess.Token, User: sess.User.Public()})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err, "Login failed")
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuth("login", outcome(err))
		s.writeError(w, r, err, "Login failed")
		return
	}
	metrics.RecordAuth("login", "ok")

	writeJSON(w, http.StatusOK, authResponse{Token: sess.Token, User: sess.User.Public()})
}

func (s *Server) trackMood(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req moodRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err, "Failed to track mood")
		return
	}

	res, err := s.moods.Track(r.Context(), user.ID, models.Mood(req.Mood), req.Note)
	if err != nil {
		s.writeError(w, r, err, "Failed to track mood")
		return
	}

	writeJSON(w, http.StatusOK, moodResponse{Message: res.Message, Tips: res.Tips})
}

func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	limit, err := parseLimit(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to get moods")
		return
	}

	entries, err := s.moods.List(r.Context(), user.ID, limit)
	if err != nil {
		s.writeError(w, r, err, "Failed to get moods")
		return
	}

	writeJSON(w, http.StatusOK, entriesResponse[models.MoodEntry]{Entries: entries})
}

func (s *Server) saveJournal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req journalRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err, "Failed to save journal")
		return
	}

	if _, err := s.journals.Save(r.Context(), user.ID, req.Content); err != nil {
		s.writeError(w, r, err, "Failed to save journal")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Journal entry saved"})
}

func (s *Server) listJournals(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	limit, err := parseLimit(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to get journal entries")
		return
	}

	entries, err := s.journals.List(r.Context(), user.ID, limit)
	if err != nil {
		s.writeError(w, r, err, "Failed to get journal entries")
		return
	}

	writeJSON(w, http.StatusOK, entriesResponse[models.JournalEntry]{Entries: entries})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err, "Failed to generate response")
		return
	}

	reply, err := s.companion.Reply(r.Context(), req.Message)
	if err != nil {
		s.writeError(w, r, err, "Failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *Server) getWellness(w http.ResponseWriter, r *http.Request) {
	snap, err := s.wellness.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to get wellness data")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.health.PingContext(ctx); err != nil {
			requestLogger(r.Context(), s.logger).Warn(r.Context(), "health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrDuplicateKey):
		return "rejected"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid"
	default:
		return "error"
	}
}
