package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), GlobalConfigName))
}

func TestStoreShowMissingFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Show()
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestStoreSetCreatesFile(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Set("username", "alice")
	require.NoError(t, err)
	assert.True(t, created)

	contents, err := s.Show()
	require.NoError(t, err)
	assert.Contains(t, contents, "username=alice")

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	created, err = s.Set("password", "secret")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStoreSetNestedKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Set("m2m.client_id", "id-1")
	require.NoError(t, err)
	_, err = s.Set("m2m.client_secret", "shh")
	require.NoError(t, err)

	contents, err := s.Show()
	require.NoError(t, err)
	assert.Contains(t, contents, "[m2m]")
	assert.Contains(t, contents, "client_id=id-1")

	creds, err := s.Credentials()
	require.NoError(t, err)
	assert.Equal(t, M2M{ClientID: "id-1", ClientSecret: "shh"}, creds.M2M)
	assert.Empty(t, creds.Username)
}

func TestStoreSetInvalidKeyLeavesFileUntouched(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Set("username", "alice")
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Set("foo", "bar")
	var keyErr *InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "Invalid key value. try one of: m2m.client_id, m2m.client_secret, username, password", err.Error())

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStoreSetInvalidKeyDoesNotCreateFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Set("m2m.audience", "x")
	require.Error(t, err)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreUnset(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Set("username", "alice")
	require.NoError(t, err)
	_, err = s.Set("password", "secret")
	require.NoError(t, err)

	require.NoError(t, s.Unset("password"))

	contents, err := s.Show()
	require.NoError(t, err)
	assert.Contains(t, contents, "username=alice")
	assert.NotContains(t, contents, "password")
}

func TestStoreUnsetNested(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Set("m2m.client_id", "id-1")
	require.NoError(t, err)

	require.NoError(t, s.Unset("m2m.client_id"))

	contents, err := s.Show()
	require.NoError(t, err)
	assert.NotContains(t, contents, "m2m")
}

func TestStoreUnsetSection(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Set("m2m.client_id", "id-1")
	require.NoError(t, err)
	_, err = s.Set("m2m.client_secret", "shh")
	require.NoError(t, err)

	require.NoError(t, s.Unset("m2m"))

	creds, err := s.Credentials()
	require.NoError(t, err)
	assert.True(t, creds.M2M.IsZero())
}

func TestStoreUnsetMissingKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Set("username", "alice")
	require.NoError(t, err)

	err = s.Unset("password")
	var notFound *KeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "password is not found in the config file.", err.Error())
}

func TestStoreUnsetWithoutFile(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.Unset("username"), ErrNoConfig)
}

func TestStoreCredentialsFlatM2MKeys(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("m2m.client_id=flat\nm2m.client_secret=s\n"), 0600))

	creds, err := s.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "flat", creds.M2M.ClientID)
	assert.Equal(t, "s", creds.M2M.ClientSecret)
}

func TestStoreCredentialsMissingFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Credentials()
	assert.ErrorIs(t, err, ErrNoConfig)
}
