package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/campus-ride/campus_ride/internal/accounts"
)

// ErrSessionInvalid means the token is malformed, expired, or no longer
// matches the store's current session.
var ErrSessionInvalid = errors.New("session expired or replaced")

// ErrAccountRevoked means the session belongs to a user whose verification
// was withdrawn after login.
var ErrAccountRevoked = errors.New("account no longer verified")

// Service logs principals in against the account store and issues tokens
// bound to the resulting session.
type Service struct {
	store  *accounts.Store
	tokens *Tokens
	logger *slog.Logger
}

// NewService builds the auth service.
func NewService(store *accounts.Store, tokens *Tokens, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: logger}
}

// LoginResult is a successful login: the session plus its bearer token.
type LoginResult struct {
	Session   accounts.Session
	Token     string
	ExpiresAt time.Time
}

// Login authenticates the credentials and opens the session.
func (s *Service) Login(ctx context.Context, creds accounts.Credentials) (LoginResult, error) {
	session, err := s.store.Login(creds)
	if err != nil {
		s.logger.WarnContext(ctx, "auth.login rejected",
			slog.String("identifier", creds.Identifier),
			slog.String("reason", err.Error()),
		)
		return LoginResult{}, err
	}

	token, exp, err := s.tokens.Issue(session)
	if err != nil {
		s.store.Logout()
		return LoginResult{}, err
	}

	s.logger.InfoContext(ctx, "auth.login completed",
		slog.String("principal_id", session.PrincipalID),
		slog.String("role", string(session.Role)),
		slog.String("session_id", session.ID),
	)
	return LoginResult{Session: session, Token: token, ExpiresAt: exp}, nil
}

// Logout clears the store session.
func (s *Service) Logout(ctx context.Context) {
	if current, ok := s.store.CurrentSession(); ok {
		s.logger.InfoContext(ctx, "auth.logout", slog.String("session_id", current.ID))
	}
	s.store.Logout()
}

// Resolve maps a bearer token to the live session it was issued for. A user
// session stops resolving once an admin rejects the account.
func (s *Service) Resolve(token string) (accounts.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return accounts.Session{}, ErrSessionInvalid
	}
	current, ok := s.store.CurrentSession()
	if !ok || current.ID != claims.ID {
		return accounts.Session{}, ErrSessionInvalid
	}
	if !current.IsAdmin() && !current.User.Verified {
		return accounts.Session{}, ErrAccountRevoked
	}
	return current, nil
}
