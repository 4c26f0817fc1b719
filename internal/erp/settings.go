package erp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

// DefaultSettingsFile is looked up next to .erp-config.
const DefaultSettingsFile = "c4pricing.yaml"

// Settings are the site-specific names the pricing screens depend on.
type Settings struct {
	BuyingPriceList string `yaml:"buying_price_list"`
	Currency        string `yaml:"currency"`
	MaterialsRoot   string `yaml:"materials_root"`

	StandardTable   string   `yaml:"standard_table"`
	StandardDoctype string   `yaml:"standard_doctype"`
	ItemTypes       []string `yaml:"item_types"`
	PageSizes       []int    `yaml:"page_sizes"`
	DefaultPageSize int      `yaml:"default_page_size"`
}

// DefaultSettings matches a stock c4pricing site.
func DefaultSettings() *Settings {
	opts := selector.DefaultOptions()
	return &Settings{
		BuyingPriceList: "Standard Buying",
		Currency:        "EGP",
		MaterialsRoot:   "Materials",
		StandardTable:   opts.StandardTable,
		StandardDoctype: opts.StandardDoctype,
		ItemTypes:       opts.ItemTypes,
		PageSizes:       opts.PageSizes,
		DefaultPageSize: opts.DefaultPageSize,
	}
}

// LoadSettings reads the settings file. A missing file yields defaults; keys
// left out of the file keep their default value.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// LoadSettingsFor reads the settings file configured for c.
func LoadSettingsFor(c *Config) (*Settings, error) {
	return LoadSettings(c.settingsFile())
}

func (s *Settings) validate() error {
	if len(s.ItemTypes) == 0 {
		return fmt.Errorf("item_types is empty")
	}
	if len(s.PageSizes) == 0 {
		return fmt.Errorf("page_sizes is empty")
	}
	for _, n := range s.PageSizes {
		if n == s.DefaultPageSize {
			return nil
		}
	}
	return fmt.Errorf("default_page_size %d is not one of page_sizes %v", s.DefaultPageSize, s.PageSizes)
}

// CurrencyOf returns the currency of a document, or the configured one when
// the document carries none.
func (s *Settings) CurrencyOf(d doc.Doc) string {
	if cur := d.Str("currency"); cur != "" {
		return cur
	}
	return s.Currency
}

// SelectorOptions converts the settings for the item selector.
func (s *Settings) SelectorOptions() selector.Options {
	return selector.Options{
		StandardTable:   s.StandardTable,
		StandardDoctype: s.StandardDoctype,
		ItemTypes:       s.ItemTypes,
		PageSizes:       s.PageSizes,
		DefaultPageSize: s.DefaultPageSize,
	}
}
