package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

var (
	errConfigOptions = errors.New("Only one option is required and allowed for this command. Execute topcoder config --help for more details")
	errConfigValues  = errors.New("Invalid number of values passed.")
)

// configAction is the single operation a config invocation performs.
type configAction interface {
	run(store *config.Store, out io.Writer, logger *slog.Logger) error
}

type listConfig struct{}

type addConfig struct {
	key   string
	value string
}

type unsetConfig struct {
	key string
}

func (listConfig) run(store *config.Store, out io.Writer, _ *slog.Logger) error {
	contents, err := store.Show()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, contents)
	return err
}

func (a addConfig) run(store *config.Store, _ io.Writer, logger *slog.Logger) error {
	created, err := store.Set(a.key, a.value)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Topcoder config file not found, creating file in " + filepath.Dir(store.Path()))
	}
	logger.Info(fmt.Sprintf("%s added to the config file.", a.key))
	return nil
}

func (u unsetConfig) run(store *config.Store, _ io.Writer, logger *slog.Logger) error {
	if err := store.Unset(u.key); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("%s is removed from the config file successfully.", u.key))
	return nil
}

// resolveConfigAction picks the one selected option. --add takes its value
// from the single positional argument.
func resolveConfigAction(flags *pflag.FlagSet, args []string) (configAction, error) {
	var selected []string
	for _, name := range []string{"list", "add", "unset"} {
		if flags.Changed(name) {
			selected = append(selected, name)
		}
	}
	if len(selected) != 1 {
		return nil, errConfigOptions
	}

	switch selected[0] {
	case "add":
		key, _ := flags.GetString("add")
		if len(args) != 1 {
			return nil, errConfigValues
		}
		return addConfig{key: key, value: args[0]}, nil
	case "unset":
		key, _ := flags.GetString("unset")
		return unsetConfig{key: key}, nil
	default:
		return listConfig{}, nil
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Setup global configuration for the Topcoder CLI",
	Long: `Manage ~/.tcconfig, the per-user defaults used when neither the command
line nor .topcoderrc supplies credentials.

Accepted keys: m2m.client_id, m2m.client_secret, username, password.

Exactly one option is allowed per invocation.

Examples:
  topcoder config --list
  topcoder config --add username alice
  topcoder config --add m2m.client_id abc123
  topcoder config --unset password`,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := resolveConfigAction(cmd.Flags(), args)
		if err != nil {
			return err
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := config.DefaultStore()
		if err != nil {
			return fmt.Errorf("failed to locate config file: %w", err)
		}
		return action.run(store, cmd.OutOrStdout(), e.logger)
	},
}

func init() {
	flags := configCmd.Flags()
	flags.BoolP("list", "l", false, "Print the keys in the config file")
	flags.StringP("add", "a", "", "Add / Replace a key in the config file: --add <key> <value>")
	flags.String("unset", "", "Removes a key from the config file")
	rootCmd.AddCommand(configCmd)
}
