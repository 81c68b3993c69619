// Package users contains the server-side credential use cases: registration,
// login, and user lookup. The service orchestrates the password hasher, the
// token codec, and the user repository; it owns no transport or persistence
// details of its own.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

// dummyDigest is verified against when a login email is unknown, so the
// expensive key derivation runs on both paths and response time does not
// reveal whether the email exists. It is not a credential and matches no
// password.
const dummyDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides credential operations:
//   - Register: create a user and issue a token
//   - Login: verify credentials and issue a token
//   - GetByID: fetch an active user
type Service struct {
	repo   Repository
	hasher *auth.Hasher
	codec  *auth.TokenCodec
	logger logging.Logger
}

func NewService(repo Repository, hasher *auth.Hasher, codec *auth.TokenCodec, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		logger: logger.With("module", "users_service"),
	}
}

// Register creates a new active user with the given credentials and returns
// a signed token for it.
//
// The lookup is a fast path only: a concurrent registration of the same
// email slips past it, and the unique constraint surfaced by the repository
// as ErrorEmailAlreadyExists is the actual guarantee. Note the fast path
// returns before key derivation, so register latency can differ for taken
// emails; the lookup itself is not constant-time.
func (s *Service) Register(ctx context.Context, email, password, name string) (string, error) {

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return "", common.ErrorEmailAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "error searching user by email", "error", err)
		return "", common.ErrorInternal
	}

	digest, err := s.hasher.Hash(ctx, []byte(password))
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return "", common.ErrorInternal
	}

	user := NewUser(email, digest, name)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorEmailAlreadyExists) {
			// lost the race to a concurrent registration
			return "", common.ErrorEmailAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return "", common.ErrorInternal
	}

	token, err := s.codec.Issue(user.ID.String())
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// Login verifies the email/password pair and returns a signed token. Unknown
// email and wrong password both yield ErrorInvalidCredentials; a dummy
// verification runs when the email is unknown so the two cases cost the same.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {

	targetDigest := dummyDigest
	found := false

	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		targetDigest = user.PasswordHash
		found = true
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "error searching user by email", "error", err)
		return "", common.ErrorInternal
	}

	ok, err := s.hasher.Verify(ctx, []byte(password), targetDigest)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidDigest) {
			if found {
				s.logger.Error(ctx, "stored password digest is corrupted", "user_id", user.ID.String())
			}
			return "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "error verifying password", "error", err)
		return "", common.ErrorInternal
	}

	if !found || !ok {
		return "", common.ErrorInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID.String())
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetByID returns the active user with the given ID, or ErrorNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error searching user by id", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}
