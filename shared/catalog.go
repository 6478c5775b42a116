package shared

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadingText is shown in place of the chart title while chart data is loading.
const LoadingText = "데이터 가져오는 중..."

//go:embed catalog.yaml
var catalogYAML []byte

// Ticker represents a selectable stock ticker.
type Ticker struct {
	// Code is the exchange ticker code.
	Code string `yaml:"code" json:"code"`
	// Name is the ticker display name.
	Name string `yaml:"name" json:"name"`
}

// Catalog represents the fixed set of tickers offered for charting.
type Catalog struct {
	// Default is the code selected when none is provided.
	Default string   `yaml:"default"`
	Tickers []Ticker `yaml:"tickers"`

	names map[string]string
}

// ParseCatalog parses a ticker catalog from the provided yaml document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	err := yaml.Unmarshal(data, &catalog)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	err = catalog.index()
	if err != nil {
		return nil, err
	}

	return &catalog, nil
}

// index validates the catalog entries and builds the code lookup.
func (c *Catalog) index() error {
	var errs error

	c.names = make(map[string]string, len(c.Tickers))
	for idx := range c.Tickers {
		ticker := &c.Tickers[idx]
		if ticker.Code == "" {
			errs = errors.Join(errs, fmt.Errorf("ticker at index %d has no code", idx))
			continue
		}
		if _, ok := c.names[ticker.Code]; ok {
			errs = errors.Join(errs, fmt.Errorf("duplicate ticker code %s", ticker.Code))
			continue
		}
		c.names[ticker.Code] = ticker.Name
	}

	if len(c.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("catalog has no tickers"))
	}
	if _, ok := c.names[c.Default]; !ok {
		errs = errors.Join(errs, fmt.Errorf("default ticker %q is not in the catalog", c.Default))
	}

	return errs
}

// Name returns the display name of the provided ticker code.
func (c *Catalog) Name(code string) (string, bool) {
	name, ok := c.names[code]
	return name, ok
}

// Title returns the chart title for the provided ticker code.
func (c *Catalog) Title(code string) string {
	name, _ := c.Name(code)
	return fmt.Sprintf("%s (%s)", name, code)
}

// DefaultCatalog returns the ticker catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(catalogYAML)
	if err != nil {
		// The embedded document is fixed at build time.
		panic(fmt.Sprintf("invalid embedded catalog: %v", err))
	}

	return catalog
}
