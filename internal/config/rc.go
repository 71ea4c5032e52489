package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// M2M is a machine-to-machine client credential pair.
type M2M struct {
	ClientID     string `mapstructure:"client_id" json:"client_id,omitempty"`
	ClientSecret string `mapstructure:"client_secret" json:"client_secret,omitempty"`
}

// IsZero reports whether neither half of the pair is set.
func (m M2M) IsZero() bool {
	return m.ClientID == "" && m.ClientSecret == ""
}

// ProjectConfig mirrors the keys accepted in .topcoderrc. Numeric and list
// values are kept raw so the credential resolver can report precise
// validation errors instead of decoder errors.
type ProjectConfig struct {
	Username           string   `mapstructure:"username"`
	Password           string   `mapstructure:"password"`
	M2M                M2M      `mapstructure:"m2m"`
	MemberID           string   `mapstructure:"memberid"`
	ChallengeIDs       []string `mapstructure:"challengeids"`
	ChallengeID        string   `mapstructure:"challengeid"`
	SubmissionID       string   `mapstructure:"submissionid"`
	LegacySubmissionID string   `mapstructure:"legacysubmissionid"`
	Latest             bool     `mapstructure:"latest"`
}

// ReadRC loads the rc file at path. A missing file yields an empty config
// and found=false. Comments and trailing commas are accepted.
func ReadRC(path string) (cfg *ProjectConfig, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ProjectConfig{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var project ProjectConfig
	if err := v.Unmarshal(&project); err != nil {
		return nil, true, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &project, true, nil
}
