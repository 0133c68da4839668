package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/auth"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 6
	MaxUserNameLength = 50
)

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string
	User  *models.User
}

type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	hasher       *auth.PasswordHasher
	tokens       *auth.TokenIssuer
	storeTimeout time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer, storeTimeout time.Duration) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		hasher:       hasher,
		tokens:       tokens,
		storeTimeout: storeTimeout,
	}
}

// Register creates an identity and returns a session for it.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	switch {
	case username == "":
		return nil, common.WithMessage(common.ErrValidation, "username is required")
	case utf8.RuneCountInString(username) > MaxUserNameLength:
		return nil, common.WithMessage(common.ErrValidation,
			fmt.Sprintf("username must be at most %d characters", MaxUserNameLength))
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return nil, common.WithMessage(common.ErrValidation,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	user := &models.User{UserName: username, Email: email, Avatar: "default"}
	user.SetPassword(password)

	if err := s.hasher.HashPending(ctx, user); err != nil {
		return nil, err
	}

	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	user, err = s.repomanager.Users(s.db).Create(sctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.session(user)
}

// Login checks email and password. An unknown email and a wrong password
// are indistinguishable to the caller, including in timing.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).FindByEmail(sctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.VerifyDummy(ctx, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.session(user)
}

// ResolveUser verifies token and loads the identity it names. A valid
// token whose identity no longer exists is treated as an invalid token.
func (s *UserService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrMissingToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	sctx, cancel := dbx.WithDeadline(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).FindByID(sctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}
	return user, nil
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.WithMessage(common.ErrValidation, "email is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", common.WithMessage(common.ErrValidation, "email is invalid")
	}
	return strings.ToLower(addr.Address), nil
}
