package erp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultSettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultSettings(), s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsPartial(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `
currency: USD
materials_root: Raw Materials
page_sizes: [10, 20, 50]
default_page_size: 50
`))
	require.NoError(t, err)
	require.Equal(t, "USD", s.Currency)
	require.Equal(t, "Raw Materials", s.MaterialsRoot)
	require.Equal(t, "Standard Buying", s.BuyingPriceList)

	want := selector.DefaultOptions()
	want.PageSizes = []int{10, 20, 50}
	want.DefaultPageSize = 50
	if diff := cmp.Diff(want, s.SelectorOptions()); diff != "" {
		t.Errorf("selector options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"page size not offered", "default_page_size: 15\n", "default_page_size 15"},
		{"no item types", "item_types: []\n", "item_types is empty"},
		{"not yaml", "currency: [unclosed\n", "invalid settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.body))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCurrencyOf(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, "USD", s.CurrencyOf(doc.Doc{"currency": "USD"}))
	require.Equal(t, "EGP", s.CurrencyOf(doc.Doc{"currency": ""}))
	require.Equal(t, "EGP", s.CurrencyOf(nil))
}
