package httpapi

import (
	"context"

	"github.com/dmitrijs2005/mindease/internal/logging"
	"github.com/dmitrijs2005/mindease/internal/server/models"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "requestID"
)

// UserFromContext returns the identity resolved by the authorization gate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger tags l with the request id and, behind the gate, the
// resolved user id.
func requestLogger(ctx context.Context, l logging.Logger) logging.Logger {
	if id := requestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if u, ok := UserFromContext(ctx); ok {
		l = l.With("user_id", u.ID)
	}
	return l
}
