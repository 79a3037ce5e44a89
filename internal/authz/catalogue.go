package authz

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed permissions.yaml
var catalogueYAML []byte

// Resource nhóm các action của một tài nguyên
type Resource struct {
	Name    string   `yaml:"name"`
	Actions []string `yaml:"actions"`
}

// Catalogue là danh mục toàn bộ quyền của hệ thống
type Catalogue struct {
	Resources []Resource `yaml:"resources"`

	index map[string]struct{}
}

var (
	defaultCatalogue    *Catalogue
	defaultCatalogueErr error
	catalogueOnce       sync.Once
)

// ParseCatalogue đọc danh mục quyền từ YAML
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse permission catalogue: %w", err)
	}
	c.index = map[string]struct{}{}
	for _, r := range c.Resources {
		if r.Name == "" {
			return nil, fmt.Errorf("permission catalogue: resource without name")
		}
		for _, a := range r.Actions {
			c.index[Token(r.Name, a)] = struct{}{}
		}
	}
	return &c, nil
}

// DefaultCatalogue trả về danh mục nhúng trong binary
func DefaultCatalogue() (*Catalogue, error) {
	catalogueOnce.Do(func() {
		defaultCatalogue, defaultCatalogueErr = ParseCatalogue(catalogueYAML)
	})
	return defaultCatalogue, defaultCatalogueErr
}

// Token ghép resource và action thành token quyền
func Token(resource, action string) string {
	return resource + "." + action
}

// Has kiểm tra token có trong danh mục
func (c *Catalogue) Has(token string) bool {
	_, ok := c.index[token]
	return ok
}

// Permissions trả về toàn bộ token đã sắp xếp
func (c *Catalogue) Permissions() []string {
	out := make([]string, 0, len(c.index))
	for p := range c.index {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Unknown trả về các token không có trong danh mục
func (c *Catalogue) Unknown(tokens []string) []string {
	var unknown []string
	for _, t := range tokens {
		if !c.Has(t) {
			unknown = append(unknown, t)
		}
	}
	return unknown
}
