package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/models"
	"github.com/precisionhealth/skinsight-be/internal/store"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	s := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	codec := auth.NewTokenCodec("test-secret", 30*time.Minute)
	return NewUserService(s, codec)
}

func TestRegisterAuthenticateResolve_Roundtrip(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t)

	created, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.False(t, created.Disabled)
	assert.NotEmpty(t, created.HashedPassword)
	assert.NotEqual(t, "s3cret", created.HashedPassword)

	account, err := svc.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	// Login also works with the email form of the identifier.
	account, err = svc.Authenticate("alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	token, err := svc.IssueToken(account.Username)
	require.NoError(t, err)

	resolved, err := svc.ResolveIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)
}

// Wrong password and unknown account must return the identical error so
// account existence cannot be probed.
func TestAuthenticate_FailureCausesUnified(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t)
	_, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	_, wrongPass := svc.Authenticate("alice", "wrong")
	_, unknown := svc.Authenticate("nobody", "anything")

	assert.ErrorIs(t, wrongPass, apperrors.ErrUnauthenticated)
	assert.ErrorIs(t, unknown, apperrors.ErrUnauthenticated)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t)
	_, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other", "other@example.com", "Other")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "username")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t)
	_, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	_, err = svc.Register("bob", "other", "alice@example.com", "Bob B")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "email")
}

func TestResolveIdentity_ExpiredAndForgedIndistinguishable(t *testing.T) {
	t.Parallel()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	codec := auth.NewTokenCodec("test-secret", 30*time.Minute)
	svc := NewUserService(fileStore, codec)

	_, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	expired, err := codec.Issue("alice", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	forged, err := auth.NewTokenCodec("other-secret", 30*time.Minute).Issue("alice", time.Hour)
	require.NoError(t, err)

	_, expiredErr := svc.ResolveIdentity(expired)
	_, forgedErr := svc.ResolveIdentity(forged)

	assert.ErrorIs(t, expiredErr, apperrors.ErrInvalidCredential)
	assert.ErrorIs(t, forgedErr, apperrors.ErrInvalidCredential)
	assert.Equal(t, expiredErr.Error(), forgedErr.Error())
}

func TestResolveIdentity_DisabledAccount(t *testing.T) {
	t.Parallel()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	codec := auth.NewTokenCodec("test-secret", 30*time.Minute)
	svc := NewUserService(fileStore, codec)

	created, err := svc.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	token, err := codec.Issue(created.Username, 0)
	require.NoError(t, err)

	accounts := fileStore.Load()
	disabled := accounts["alice"]
	disabled.Disabled = true
	accounts["alice"] = disabled
	require.NoError(t, fileStore.Save(accounts))

	_, err = svc.ResolveIdentity(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = svc.Authenticate("alice", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRegister_PersistsAcrossServiceInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	codec := auth.NewTokenCodec("test-secret", 30*time.Minute)

	first := NewUserService(store.NewFileStore(path), codec)
	_, err := first.Register("alice", "s3cret", "alice@example.com", "Alice A")
	require.NoError(t, err)

	second := NewUserService(store.NewFileStore(path), codec)
	account, err := second.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.Account{
		Username:       "alice",
		Email:          "alice@example.com",
		FullName:       "Alice A",
		HashedPassword: account.HashedPassword,
		Disabled:       false,
	}, account)
}
