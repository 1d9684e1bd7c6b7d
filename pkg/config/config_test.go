package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMACL_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8200, cfg.Port)
	assert.Equal(t, []string{"project", "project-template"}, cfg.ProjectClassNames)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "default", cfg.Source("port"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMACL_CONFIG_PATH", dir)

	content := []byte("port: 9000\ntrusted_proxies:\n  - 10.0.0.0/8\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, "default", cfg.Source("bind_address"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMACL_CONFIG_PATH", dir)

	content := []byte("port: 9000\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	t.Setenv("TMACL_PORT", "9100")
	t.Setenv("TMACL_PROJECT_CLASS_NAMES", "project, project-template ,custom-project")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, []string{"project", "project-template", "custom-project"}, cfg.ProjectClassNames)
}

func TestAuditEnabledFalseFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMACL_CONFIG_PATH", dir)

	content := []byte("audit_enabled: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, "file", cfg.Source("audit_enabled"))
}

func TestAuditEnabledEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMACL_CONFIG_PATH", dir)

	content := []byte("audit_enabled: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	t.Setenv("TMACL_AUDIT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "environment", cfg.Source("audit_enabled"))
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMACL_CONFIG_PATH", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: [not a port"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())
	cfg.Port = 8200

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())
	cfg.TrustedProxies = []string{"192.168.1.1"}
	assert.NoError(t, cfg.Validate())

	cfg.ProjectClassNames = nil
	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.5"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.5"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("garbage"))
}

func TestAttributes(t *testing.T) {
	cfg := newDefault()
	attrs := cfg.Attributes()
	require.Len(t, attrs, 6)

	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	assert.Contains(t, names, "bind_address")
	assert.Contains(t, names, "audit_enabled")

	text := cfg.FormatText()
	assert.Contains(t, text, "bind_address")
	assert.Contains(t, text, "SOURCE")

	jsonOut, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, jsonOut, "attributes")
}
