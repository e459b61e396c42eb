package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// WriteMode selects how an existing document is treated on write.
type WriteMode int

const (
	// ModeSkip leaves existing documents untouched.
	ModeSkip WriteMode = iota
	// ModeOverwrite discards any existing document.
	ModeOverwrite
	// ModeAppend smart-merges new facts into the existing document.
	ModeAppend
)

func (m WriteMode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeAppend:
		return "append"
	default:
		return "skip"
	}
}

const (
	DefaultDelimiter           = ": "
	DefaultSeparator           = "--------------------"
	DefaultFilenameSeed        = "cn"
	DefaultLogonCountThreshold = 100
	DefaultStaleLogonDays      = 30
)

// DefaultPrivilegedGroups are the well-known group names whose members are
// treated as admin regardless of admincount.
var DefaultPrivilegedGroups = []string{
	"Domain Admins",
	"Enterprise Admins",
	"Schema Admins",
	"Administrators",
}

// Config carries every tunable the pipeline accepts. It is passed explicitly
// into the pipeline entry point; nothing reads ambient globals.
type Config struct {
	Delimiter           string
	Separator           string
	FilenameSeed        string
	LogonCountThreshold int
	StaleLogonDays      int
	Mode                WriteMode
	PrivilegedGroups    []string
	Debug               bool
}

func Default() Config {
	return Config{
		Delimiter:           DefaultDelimiter,
		Separator:           DefaultSeparator,
		FilenameSeed:        DefaultFilenameSeed,
		LogonCountThreshold: DefaultLogonCountThreshold,
		StaleLogonDays:      DefaultStaleLogonDays,
		Mode:                ModeSkip,
		PrivilegedGroups:    DefaultPrivilegedGroups,
	}
}

// LoadEnv loads an env file and applies ADVAULT_* overrides on top of base.
func LoadEnv(base Config, path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return base, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return FromEnv(base)
}

// FromEnv applies ADVAULT_* environment overrides on top of base.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if v := os.Getenv("ADVAULT_DELIMITER"); v != "" {
		cfg.Delimiter = v
	}
	if v := os.Getenv("ADVAULT_SEPARATOR"); v != "" {
		cfg.Separator = v
	}
	if v := os.Getenv("ADVAULT_FILENAME_SEED"); v != "" {
		cfg.FilenameSeed = v
	}
	if v := os.Getenv("ADVAULT_LOGON_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("ADVAULT_LOGON_COUNT: %w", err)
		}
		cfg.LogonCountThreshold = n
	}
	if v := os.Getenv("ADVAULT_LOGON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("ADVAULT_LOGON_DAYS: %w", err)
		}
		cfg.StaleLogonDays = n
	}
	switch os.Getenv("ADVAULT_WRITE_MODE") {
	case "":
	case "skip":
		cfg.Mode = ModeSkip
	case "overwrite":
		cfg.Mode = ModeOverwrite
	case "append":
		cfg.Mode = ModeAppend
	default:
		return cfg, fmt.Errorf("ADVAULT_WRITE_MODE: want skip, overwrite or append")
	}
	return cfg, nil
}
