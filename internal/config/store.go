package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrNoConfig is returned when the global config file does not exist.
var ErrNoConfig = errors.New("topcoder config file not found")

// ValidKeys lists the only keys the global config accepts.
var ValidKeys = []string{"m2m.client_id", "m2m.client_secret", "username", "password"}

// InvalidKeyError is returned by Set for keys outside ValidKeys.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("Invalid key value. try one of: %s", strings.Join(ValidKeys, ", "))
}

// KeyNotFoundError is returned by Unset when the key is absent.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s is not found in the config file.", e.Key)
}

// Credentials is the credential subset of the global config.
type Credentials struct {
	Username string
	Password string
	M2M      M2M
}

func init() {
	// key=value without padding, matching what other tools write into ~/.tcconfig
	ini.PrettyFormat = false
}

// Store is the per-user key/value file. Every mutation reads the whole
// file, applies the change and rewrites it; concurrent writers are not
// coordinated and the last one wins.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns the store at ~/.tcconfig.
func DefaultStore() (*Store, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Show returns the raw file contents.
func (s *Store) Show() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoConfig
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return string(data), nil
}

// Set validates key and writes value, creating the file when needed.
// created reports whether the file did not exist before.
func (s *Store) Set(key, value string) (created bool, err error) {
	if !isValidKey(key) {
		return false, &InvalidKeyError{Key: key}
	}

	cfg, err := s.load()
	if errors.Is(err, ErrNoConfig) {
		cfg = ini.Empty()
		created = true
	} else if err != nil {
		return false, err
	}

	section, name := splitKey(key)
	cfg.Section(section).Key(name).SetValue(value)
	return created, s.save(cfg)
}

// Unset removes key. A bare section name such as "m2m" removes the whole
// section.
func (s *Store) Unset(key string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}

	section, name := splitKey(key)
	switch {
	case section == ini.DefaultSection && cfg.Section(ini.DefaultSection).HasKey(name):
		cfg.Section(ini.DefaultSection).DeleteKey(name)
	case section == ini.DefaultSection && hasSection(cfg, name):
		cfg.DeleteSection(name)
	case section != ini.DefaultSection && hasSection(cfg, section) && cfg.Section(section).HasKey(name):
		cfg.Section(section).DeleteKey(name)
		if len(cfg.Section(section).Keys()) == 0 {
			cfg.DeleteSection(section)
		}
	default:
		return &KeyNotFoundError{Key: key}
	}
	return s.save(cfg)
}

// Credentials reads username/password and the m2m pair.
func (s *Store) Credentials() (*Credentials, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	root := cfg.Section(ini.DefaultSection)
	creds := &Credentials{
		Username: root.Key("username").String(),
		Password: root.Key("password").String(),
	}
	if hasSection(cfg, "m2m") {
		m2m := cfg.Section("m2m")
		creds.M2M = M2M{
			ClientID:     m2m.Key("client_id").String(),
			ClientSecret: m2m.Key("client_secret").String(),
		}
	}
	// tolerate flat "m2m.client_id=" lines written by hand
	if creds.M2M.ClientID == "" {
		creds.M2M.ClientID = root.Key("m2m.client_id").String()
	}
	if creds.M2M.ClientSecret == "" {
		creds.M2M.ClientSecret = root.Key("m2m.client_secret").String()
	}
	return creds, nil
}

func (s *Store) load() (*ini.File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (s *Store) save(cfg *ini.File) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func isValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

func splitKey(key string) (section, name string) {
	if i := strings.Index(key, "."); i > 0 {
		return key[:i], key[i+1:]
	}
	return ini.DefaultSection, key
}

func hasSection(cfg *ini.File, name string) bool {
	_, err := cfg.GetSection(name)
	return err == nil
}
