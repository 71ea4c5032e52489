package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RCFileName is the per-project rc file read from the working directory.
const RCFileName = ".topcoderrc"

// GlobalConfigName is the per-user config file stored in the home directory.
const GlobalConfigName = ".tcconfig"

// DevEnvironment selects the development endpoint set when TC_ENV is set to it.
const DevEnvironment = "dev"

// Endpoints holds every remote URL and client setting needed for one invocation.
type Endpoints struct {
	MembersAPI     string        `mapstructure:"tc_members_api"`
	SubmissionAPI  string        `mapstructure:"submission_api_url"`
	Auth0URL       string        `mapstructure:"auth0_url"`
	Auth0Audience  string        `mapstructure:"auth0_audience"`
	AuthNURL       string        `mapstructure:"tc_authn_url"`
	AuthZURL       string        `mapstructure:"tc_authz_url"`
	ClientID       string        `mapstructure:"tc_client_id"`
	V2Connection   string        `mapstructure:"tc_client_v2connection"`
	LogLevel       string        `mapstructure:"log_level"`
	HTTPTimeout    time.Duration `mapstructure:"tc_http_timeout"`
	HTTPRetryMax   int           `mapstructure:"tc_http_retry_max"`
	DevEnvironment bool          `mapstructure:"-"`
}

var prodDefaults = map[string]any{
	"tc_members_api":         "https://api.topcoder.com/v3/members",
	"submission_api_url":     "https://api.topcoder.com/v5",
	"auth0_url":              "https://topcoder.auth0.com/oauth/token",
	"auth0_audience":         "https://m2m.topcoder.com/",
	"tc_authn_url":           "https://topcoder.auth0.com/oauth/ro",
	"tc_authz_url":           "https://api.topcoder.com/v3/authorizations",
	"tc_client_id":           "6ZwZEUo2ZK4c50aLPpgupeg5v2Ffxp9P",
	"tc_client_v2connection": "TC-User-Database",
}

var devDefaults = map[string]any{
	"tc_members_api":         "https://api.topcoder-dev.com/v3/members",
	"submission_api_url":     "https://api.topcoder-dev.com/v5",
	"auth0_url":              "https://topcoder-dev.auth0.com/oauth/token",
	"auth0_audience":         "https://m2m.topcoder-dev.com/",
	"tc_authn_url":           "https://topcoder-dev.auth0.com/oauth/ro",
	"tc_authz_url":           "https://api.topcoder-dev.com/v3/authorizations",
	"tc_client_id":           "JFDo7HMkf0q2CkVFHojy3zHWafziprhT",
	"tc_client_v2connection": "TC-User-Database",
}

// LoadEndpoints resolves the endpoint set. dev selects the development
// platform; TC_ENV=dev does the same. Every key can be overridden by the
// upper-cased environment variable of the same name.
func LoadEndpoints(dev bool) (*Endpoints, error) {
	v := viper.New()

	v.SetDefault("tc_env", "")
	_ = v.BindEnv("tc_env")
	if strings.EqualFold(v.GetString("tc_env"), DevEnvironment) {
		dev = true
	}

	defaults := prodDefaults
	if dev {
		defaults = devDefaults
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetDefault("log_level", "info")
	v.SetDefault("tc_http_timeout", 60*time.Second)
	v.SetDefault("tc_http_retry_max", 3)

	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var endpoints Endpoints
	if err := v.Unmarshal(&endpoints); err != nil {
		return nil, err
	}
	endpoints.SubmissionAPI = strings.TrimRight(endpoints.SubmissionAPI, "/")
	endpoints.MembersAPI = strings.TrimRight(endpoints.MembersAPI, "/")
	endpoints.DevEnvironment = dev
	return &endpoints, nil
}

// GlobalConfigPath returns the location of the per-user config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalConfigName), nil
}

// RCPath returns the rc file location inside dir.
func RCPath(dir string) string {
	return filepath.Join(dir, RCFileName)
}
