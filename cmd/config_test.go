package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
	"github.com/topcoder-platform/topcoder-cli/internal/logging"
)

func configFlags(t *testing.T, argv ...string) (*pflag.FlagSet, []string) {
	t.Helper()
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.BoolP("list", "l", false, "")
	flags.StringP("add", "a", "", "")
	flags.String("unset", "", "")
	require.NoError(t, flags.Parse(argv))
	return flags, flags.Args()
}

func TestResolveConfigAction(t *testing.T) {
	flags, args := configFlags(t, "--list")
	action, err := resolveConfigAction(flags, args)
	require.NoError(t, err)
	assert.Equal(t, listConfig{}, action)

	flags, args = configFlags(t, "-a", "username", "alice")
	action, err = resolveConfigAction(flags, args)
	require.NoError(t, err)
	assert.Equal(t, addConfig{key: "username", value: "alice"}, action)

	flags, args = configFlags(t, "--unset", "m2m.client_id")
	action, err = resolveConfigAction(flags, args)
	require.NoError(t, err)
	assert.Equal(t, unsetConfig{key: "m2m.client_id"}, action)
}

func TestResolveConfigActionRequiresExactlyOne(t *testing.T) {
	for _, argv := range [][]string{
		{},
		{"--list", "--unset", "username"},
		{"-l", "-a", "username", "alice"},
	} {
		flags, args := configFlags(t, argv...)
		_, err := resolveConfigAction(flags, args)
		assert.ErrorIs(t, err, errConfigOptions, "%v", argv)
	}
}

func TestResolveConfigActionValueCount(t *testing.T) {
	flags, args := configFlags(t, "--add", "username", "alice", "bob")
	_, err := resolveConfigAction(flags, args)
	assert.EqualError(t, err, "Invalid number of values passed.")

	flags, args = configFlags(t, "--add", "username")
	_, err = resolveConfigAction(flags, args)
	assert.ErrorIs(t, err, errConfigValues)
}

func TestConfigActionsRun(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), config.GlobalConfigName))
	var out, logs bytes.Buffer
	logger := logging.New(&logs, logging.ParseLevel("info"))

	require.NoError(t, addConfig{key: "username", value: "alice"}.run(store, &out, logger))
	assert.Contains(t, logs.String(), "Topcoder config file not found, creating file in")
	assert.Contains(t, logs.String(), "username added to the config file.")

	require.NoError(t, listConfig{}.run(store, &out, logger))
	assert.Contains(t, out.String(), "username=alice")

	require.NoError(t, unsetConfig{key: "username"}.run(store, &out, logger))
	assert.Contains(t, logs.String(), "username is removed from the config file successfully.")

	err := unsetConfig{key: "username"}.run(store, &out, logger)
	assert.EqualError(t, err, "username is not found in the config file.")
}

func TestConfigListWithoutFile(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), config.GlobalConfigName))

	err := listConfig{}.run(store, &bytes.Buffer{}, logging.Discard())
	assert.ErrorIs(t, err, config.ErrNoConfig)
	assert.Equal(t, "Topcoder config file not found", userMessage(err))
}
