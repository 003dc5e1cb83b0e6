package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

type UseCase struct {
	owners    repository.OwnerRepository
	sessions  repository.SessionRepository
	jwtSecret []byte
	jwtIssuer string
	logger    *zap.Logger
}

func New(owners repository.OwnerRepository, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		owners:    owners,
		sessions:  sessions,
		jwtSecret: []byte(secret),
		jwtIssuer: issuer,
		logger:    logger,
	}
}

// Credentials is what a successful login returns: the cached session plus the
// bearer token clients present on goal routes.
type Credentials struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

// Register creates or refreshes the owner record and opens a session for it.
func (uc *UseCase) Register(ctx context.Context, owner *domain.Owner, ttl time.Duration) (*Credentials, error) {
	if owner == nil || owner.Email == "" {
		return nil, domain.ErrInvalidPayload
	}
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	if err := uc.owners.Upsert(ctx, owner); err != nil {
		return nil, err
	}
	return uc.Login(ctx, owner.ID, ttl)
}

func (uc *UseCase) Login(ctx context.Context, ownerID string, ttl time.Duration) (*Credentials, error) {
	if _, err := uc.owners.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.mintToken(session)
	if err != nil {
		return nil, err
	}

	return &Credentials{Session: session, Token: token}, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*Credentials, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)

	token, err := uc.mintToken(session)
	if err != nil {
		return nil, err
	}
	return &Credentials{Session: session, Token: token}, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) mintToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id": session.OwnerID,
		"sid":     session.ID,
		"iss":     uc.jwtIssuer,
		"iat":     session.CreatedAt.Unix(),
		"exp":     session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}
