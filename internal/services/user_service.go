package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/models"
	"github.com/precisionhealth/skinsight-be/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Authenticate(identifier, password string) (models.Account, error)
	Register(username, password, email, fullName string) (models.Account, error)
	ResolveIdentity(token string) (models.Account, error)
	GetAccount(username string) (models.Account, error)
	IssueToken(username string) (string, error)
}

// UserService provides the credential lifecycle: registration, authentication
// and identity resolution against the account store.
type UserService struct {
	store store.AccountStore
	codec *auth.TokenCodec

	// The store offers no transactional guarantee, so the load-check-save
	// sequence in Register is serialized here to close the duplicate-write
	// race between concurrent registrations.
	mu sync.Mutex
}

// NewUserService creates a new UserService.
func NewUserService(store store.AccountStore, codec *auth.TokenCodec) *UserService {
	return &UserService{store: store, codec: codec}
}

// Authenticate verifies a user's credentials. The identifier may be a
// username or an email. An unknown account and a wrong password return the
// identical error, so account existence cannot be probed through login.
func (s *UserService) Authenticate(identifier, password string) (models.Account, error) {
	account, ok := s.store.FindByUsernameOrEmail(identifier)
	if !ok {
		log.Info().Str("identifier", identifier).Msg("Authentication failed: user not found")
		return models.Account{}, apperrors.ErrUnauthenticated
	}
	if account.Disabled {
		log.Info().Str("identifier", identifier).Msg("Authentication failed: account disabled")
		return models.Account{}, apperrors.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)); err != nil {
		log.Info().Str("identifier", identifier).Msg("Authentication failed: invalid password")
		return models.Account{}, apperrors.ErrUnauthenticated
	}
	log.Info().Str("username", account.Username).Msg("User authenticated successfully")
	return account, nil
}

// Register creates a new account, hashing the password. Duplicate usernames
// and duplicate emails both return ErrConflict; the message tells the user
// which field collided.
func (s *UserService) Register(username, password, email, fullName string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.store.Load()
	if _, exists := accounts[username]; exists {
		return models.Account{}, fmt.Errorf("%w: username already registered", apperrors.ErrConflict)
	}
	for _, existing := range accounts {
		if existing.Email == email {
			return models.Account{}, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: string(hashed),
		Disabled:       false,
	}
	accounts[username] = account

	if err := s.store.Save(accounts); err != nil {
		return models.Account{}, err
	}

	log.Info().Str("username", username).Msg("New user registered")
	return account, nil
}

// ResolveIdentity maps a bearer token back to the account it was issued for.
// Any token failure, and a subject that no longer exists or is disabled, all
// return ErrInvalidCredential.
func (s *UserService) ResolveIdentity(token string) (models.Account, error) {
	subject, err := s.codec.Verify(token)
	if err != nil {
		return models.Account{}, err
	}
	return s.GetAccount(subject)
}

// GetAccount fetches an account for an already-verified subject.
func (s *UserService) GetAccount(username string) (models.Account, error) {
	account, ok := s.store.FindByUsernameOrEmail(username)
	if !ok || account.Disabled {
		log.Warn().Str("username", username).Msg("Token subject has no usable account")
		return models.Account{}, apperrors.ErrInvalidCredential
	}
	return account, nil
}

// IssueToken mints a bearer token for the given username using the codec's
// default TTL.
func (s *UserService) IssueToken(username string) (string, error) {
	return s.codec.Issue(username, 0)
}
