// Package credentials merges command-line flags, the project rc file and
// the global config into one validated parameter set.
//
// Precedence is key by key: CLI flags, then .topcoderrc, then ~/.tcconfig.
// The global file is consulted only when neither higher source supplied a
// username or an m2m client id, and it never overrides a present value.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

// GlobalSource supplies default credentials from the per-user config.
type GlobalSource interface {
	Credentials() (*config.Credentials, error)
}

// Resolver produces validated parameters for one command invocation.
type Resolver struct {
	Global GlobalSource
	Logger *slog.Logger
}

// NewResolver returns a resolver backed by global, which may be nil.
func NewResolver(global GlobalSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Global: global, Logger: logger}
}

// Resolve reads the rc file at rcPath, overlays cli for the allowed keys
// plus username and password, falls back to global credentials and
// validates the result against schema.
func (r *Resolver) Resolve(rcPath string, cli CLIParams, schema Schema, allowed []Key) (*Params, error) {
	project, found, err := config.ReadRC(rcPath)
	if err != nil {
		return nil, err
	}
	if found {
		r.Logger.Info("Reading from topcoder rc file...")
	}

	merged := fromProject(project)
	for _, key := range append(append([]Key{}, allowed...), KeyUsername, KeyPassword) {
		merged.overlay(key, cli)
	}

	if !merged.has(KeyUsername) && merged.M2M.ClientID == "" {
		if err := r.applyGlobal(&merged); err != nil {
			return nil, err
		}
	}

	params, err := schema.Validate(&merged)
	if err != nil {
		return nil, err
	}
	return params, nil
}

func (r *Resolver) applyGlobal(v *Values) error {
	if r.Global == nil {
		return nil
	}
	creds, err := r.Global.Credentials()
	if errors.Is(err, config.ErrNoConfig) {
		r.Logger.Debug("no global config file, skipping credential fallback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read global config: %w", err)
	}

	switch {
	case creds.Username != "":
		setIfNonEmpty(&v.Username, creds.Username)
		if v.Password == "" {
			v.Password = creds.Password
		}
	case !creds.M2M.IsZero():
		if v.M2M.ClientID == "" {
			v.M2M.ClientID = creds.M2M.ClientID
		}
		if v.M2M.ClientSecret == "" {
			v.M2M.ClientSecret = creds.M2M.ClientSecret
		}
	}
	return nil
}
