// Package catalog maps message keys to display text.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog is an immutable key -> text table.
type Catalog struct {
	messages map[string]string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := parse(defaultMessages)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded messages: %v", err))
	}
	return c
}

// Load returns the built-in catalog overlaid with the YAML file at path.
// An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	override, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for k, v := range override.messages {
		c.messages[k] = v
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	m := map[string]string{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &Catalog{messages: m}, nil
}

// Text returns the display text for key, or the key itself when the
// catalog has no entry.
func (c *Catalog) Text(key string) string {
	if v, ok := c.messages[key]; ok {
		return v
	}
	return key
}

// Has reports whether key has an entry.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}
