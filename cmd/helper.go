// cmd/helpers.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/topcoder-platform/topcoder-cli/client"
	"github.com/topcoder-platform/topcoder-cli/internal/config"
	"github.com/topcoder-platform/topcoder-cli/internal/credentials"
	"github.com/topcoder-platform/topcoder-cli/internal/logging"
)

// Flag names shared by the submit and fetch commands.
const (
	flagUsername           = "username"
	flagPassword           = "password"
	flagMemberID           = "memberId"
	flagChallengeIDs       = "challengeIds"
	flagChallengeID        = "challengeId"
	flagSubmissionID       = "submissionId"
	flagLegacySubmissionID = "legacySubmissionId"
	flagLatest             = "latest"
)

// env is what every network command needs: endpoints for the selected
// environment, a logger at the configured level and the working directory.
type env struct {
	endpoints *config.Endpoints
	logger    *slog.Logger
	dir       string
}

func newEnv(cmd *cobra.Command) (*env, error) {
	dev, _ := cmd.Flags().GetBool("dev")
	endpoints, err := config.LoadEndpoints(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to load endpoints: %w", err)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(endpoints.LogLevel))
	if endpoints.DevEnvironment {
		logger.Debug("using development environment")
	}
	return &env{endpoints: endpoints, logger: logger, dir: dir}, nil
}

// cliParams reads only the flags the user actually set, so defaults never
// shadow values from the rc file.
func cliParams(flags *pflag.FlagSet) credentials.CLIParams {
	var p credentials.CLIParams
	flags.Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case flagUsername:
			p.Username = value
		case flagPassword:
			p.Password = value
		case flagMemberID:
			p.MemberID = value
		case flagChallengeIDs:
			p.ChallengeIDs = value
		case flagChallengeID:
			p.ChallengeID = value
		case flagSubmissionID:
			p.SubmissionID = value
		case flagLegacySubmissionID:
			p.LegacySubmissionID = value
		case flagLatest:
			p.Latest = value == "true"
		}
	})
	return p
}

// addAuthFlags registers -u and -p.
func addAuthFlags(flags *pflag.FlagSet) {
	flags.StringP(flagUsername, "u", "", "Topcoder username")
	flags.StringP(flagPassword, "p", "", "Topcoder password")
}

// resolveParams merges flags, the rc file in e.dir and the global config
// for the given schema.
func resolveParams(e *env, flags *pflag.FlagSet, schema credentials.Schema) (*credentials.Params, error) {
	var global credentials.GlobalSource
	if store, err := config.DefaultStore(); err == nil {
		global = store
	} else {
		e.logger.Debug("global config unavailable", "error", err)
	}
	resolver := credentials.NewResolver(global, e.logger)
	return resolver.Resolve(config.RCPath(e.dir), cliParams(flags), schema, credentials.AllowedCLIKeys[schema.Name])
}

// login authenticates with whichever credential pair params carries.
func login(ctx context.Context, e *env, params *credentials.Params) (*client.Client, error) {
	creds := client.Credentials{
		Username: params.Username,
		Password: params.Password,
		M2M:      params.M2M,
	}
	api, err := client.Login(ctx, e.endpoints, creds, e.logger)
	if err != nil {
		return nil, err
	}
	if !api.Authenticated() {
		e.logger.Warn("continuing without a token; requests may be rejected")
	}
	return api, nil
}

// userMessage is the text shown for an error that ends a command.
func userMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		return client.InvalidCredentialsErrorMessage
	case errors.Is(err, client.ErrConnection):
		return client.ConnectionErrorMessage
	case errors.Is(err, config.ErrNoConfig):
		return "Topcoder config file not found"
	}
	return err.Error()
}
