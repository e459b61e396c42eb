package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"advault/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, ": ", cfg.Delimiter)
	require.Equal(t, "--------------------", cfg.Separator)
	require.Equal(t, "cn", cfg.FilenameSeed)
	require.Equal(t, 100, cfg.LogonCountThreshold)
	require.Equal(t, 30, cfg.StaleLogonDays)
	require.Equal(t, config.ModeSkip, cfg.Mode)
	require.Contains(t, cfg.PrivilegedGroups, "Domain Admins")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADVAULT_DELIMITER", "= ")
	t.Setenv("ADVAULT_SEPARATOR", "====")
	t.Setenv("ADVAULT_FILENAME_SEED", "samaccountname")
	t.Setenv("ADVAULT_LOGON_COUNT", "50")
	t.Setenv("ADVAULT_LOGON_DAYS", "90")
	t.Setenv("ADVAULT_WRITE_MODE", "append")

	cfg, err := config.FromEnv(config.Default())
	require.NoError(t, err)
	require.Equal(t, "= ", cfg.Delimiter)
	require.Equal(t, "====", cfg.Separator)
	require.Equal(t, "samaccountname", cfg.FilenameSeed)
	require.Equal(t, 50, cfg.LogonCountThreshold)
	require.Equal(t, 90, cfg.StaleLogonDays)
	require.Equal(t, config.ModeAppend, cfg.Mode)
}

func TestFromEnv_UnsetKeepsBase(t *testing.T) {
	cfg, err := config.FromEnv(config.Default())
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("ADVAULT_LOGON_COUNT", "lots")
	_, err := config.FromEnv(config.Default())
	require.Error(t, err)

	t.Setenv("ADVAULT_LOGON_COUNT", "")
	t.Setenv("ADVAULT_WRITE_MODE", "merge")
	_, err = config.FromEnv(config.Default())
	require.Error(t, err)
}
