package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana", body["username"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u-1","username":"ana","email":"a@x.com"}}`))
	})

	res, err := c.Register(context.Background(), "ana", "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "u-1", res.User.ID)
}

func TestProtectedCallsSendBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/mood":
			if r.Method == http.MethodGet {
				assert.Equal(t, "3", r.URL.Query().Get("limit"))
				_, _ = w.Write([]byte(`{"entries":[{"id":"m-1","mood":"ok","createdAt":"2026-01-01T00:00:00Z"}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"message":"Your ok mood was recorded","tips":["a","b"]}`))
		case "/api/journal":
			_, _ = w.Write([]byte(`{"message":"Journal entry saved"}`))
		case "/api/chat":
			_, _ = w.Write([]byte(`{"response":"hang in there"}`))
		case "/api/wellness":
			_, _ = w.Write([]byte(`{"steps":10,"heartRate":70,"sleepHours":"7.0","lastUpdated":"2026-01-01T00:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	mood, err := c.TrackMood(ctx, "tok", "ok", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, mood.Tips)

	moods, err := c.ListMoods(ctx, "tok", 3)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "ok", string(moods[0].Mood))

	msg, err := c.SaveJournal(ctx, "tok", "dear diary")
	require.NoError(t, err)
	assert.Equal(t, "Journal entry saved", msg)

	reply, err := c.Chat(ctx, "tok", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hang in there", reply)

	well, err := c.Wellness(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 70, well.HeartRate)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	})

	_, err := c.Wellness(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid token", err.Error())
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	err := c.Ping(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, IsUnauthorized(err))
}

func TestWithLimit(t *testing.T) {
	assert.Equal(t, "/api/mood", withLimit("/api/mood", 0))
	assert.Equal(t, "/api/mood?limit=10", withLimit("/api/mood", 10))
}
