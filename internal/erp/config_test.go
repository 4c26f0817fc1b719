package erp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(`
# pricing site
ERP_URL="https://erp.example.com/"
ERP_VPN=http://10.0.0.5/
ERP_API_KEY=abc
ERP_API_SECRET='def'
LOG_LEVEL=DEBUG
C4P_SETTINGS=site.yaml
not a setting
`))
	require.NoError(t, err)
	require.Equal(t, "https://erp.example.com", cfg.ERPURL)
	require.Equal(t, "http://10.0.0.5", cfg.ERPVPN)
	require.Equal(t, "abc", cfg.APIKey)
	require.Equal(t, "def", cfg.APISecret)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "auth_cookie", cfg.NginxCookieName)
	require.Equal(t, "C4 Pricing", cfg.Brand)
	require.Equal(t, "site.yaml", cfg.SettingsPath)
}

func TestParseConfigRequiresCredentials(t *testing.T) {
	_, err := parseConfig(strings.NewReader("ERP_URL=https://erp.example.com\nERP_API_KEY=abc\n"))
	require.ErrorContains(t, err, "missing required config")
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.conf")
	require.NoError(t, os.WriteFile(path, []byte("ERP_URL=https://erp.example.com\nERP_API_KEY=a\nERP_API_SECRET=b\n"), 0o600))
	t.Setenv("C4P_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultSettingsFile), cfg.settingsFile())
}

func TestSettingsFile(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default next to config", Config{path: "/etc/c4p/.erp-config"}, "/etc/c4p/c4pricing.yaml"},
		{"relative to config", Config{path: "/etc/c4p/.erp-config", SettingsPath: "sites/main.yaml"}, "/etc/c4p/sites/main.yaml"},
		{"absolute kept", Config{path: "/etc/c4p/.erp-config", SettingsPath: "/srv/site.yaml"}, "/srv/site.yaml"},
		{"no config path", Config{}, "c4pricing.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.cfg.settingsFile())
		})
	}
}
