package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// AttemptLimiter abstracts the sign-in throttle (Redis).
type AttemptLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	Fail(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements sign-up and sign-in on top of the credential
// verifier and the token issuer.
type AuthService struct {
	repo       ports.AuthRepository
	verifier   *CredentialVerifier
	tokens     *Tokens
	limiter    AttemptLimiter
	audit      ports.AuditSink
	bcryptCost int
	log        zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithAttemptLimiter enables sign-in throttling.
func WithAttemptLimiter(l AttemptLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithAuditSink forwards sign-up and sign-in outcomes to the audit trail.
func WithAuditSink(a ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = a }
}

// WithBcryptCost overrides bcrypt.DefaultCost for new password hashes.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func NewAuthService(repo ports.AuthRepository, tokens *Tokens, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.verifier = NewCredentialVerifier(repo, s.bcryptCost)
	return s
}

// SignUp creates a user. The role defaults to domain.DefaultRole.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	username := in.Username
	if strings.TrimSpace(username) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user signed up")
	s.record(domain.AuthEvent{Kind: domain.EventSignUp, Username: created.Username, Role: created.Role})
	return created, nil
}

// SignIn verifies credentials and issues a token. Unknown usernames and wrong
// passwords keep their distinct errors here; the transport collapses them.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*ports.SignInResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("sign-in throttle check failed, continuing")
		} else if blocked {
			s.record(domain.AuthEvent{Kind: domain.EventSignInFailure, Username: username, Reason: "throttled"})
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			s.failed(ctx, username, err)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset sign-in throttle")
		}
	}

	s.log.Info().
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Dur("token_ttl", s.tokens.TTL()).
		Msg("user signed in")
	s.record(domain.AuthEvent{Kind: domain.EventSignIn, Username: user.Username, Role: user.Role})
	return &ports.SignInResult{User: user, Token: token}, nil
}

func (s *AuthService) failed(ctx context.Context, username string, cause error) {
	if s.limiter != nil {
		if err := s.limiter.Fail(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record sign-in failure")
		}
	}
	s.log.Debug().Str("username", username).Str("reason", cause.Error()).Msg("sign-in rejected")
	s.record(domain.AuthEvent{Kind: domain.EventSignInFailure, Username: username, Reason: cause.Error()})
}

func (s *AuthService) record(ev domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	s.audit.Enqueue(ev)
}
