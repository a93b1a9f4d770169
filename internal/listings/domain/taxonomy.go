package domain

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CategoryOther absorbs anything outside the configured taxonomy.
const CategoryOther = "Other"

// AllCategoriesSentinel is the filter value meaning "do not filter by
// category"; the public UI sends it as the default dropdown option.
const AllCategoriesSentinel = "All Categories"

var defaultCategories = []string{
	"Electronics",
	"Clothing & Apparel",
	"Home & Garden",
	"Toys & Games",
	"Sporting Goods",
	"Books & Media",
	"Health & Beauty",
	"Grocery & Food",
	"Furniture",
	"Jewelry & Accessories",
	"Pet Supplies",
	"Office Supplies",
	CategoryOther,
}

var (
	taxonomyMu sync.RWMutex
	categories = defaultCategories
	categoryIx = buildIndex(defaultCategories)
)

// taxonomyFile is the YAML override shape: a single `categories` list.
type taxonomyFile struct {
	Categories []string `yaml:"categories"`
}

// LoadTaxonomy replaces the built-in category list with one read from a YAML
// file. An empty path keeps the defaults. "Other" is always appended so the
// normalizer has a fallback bucket.
func LoadTaxonomy(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read taxonomy file: %w", err)
	}

	var parsed taxonomyFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse taxonomy file: %w", err)
	}

	cleaned := make([]string, 0, len(parsed.Categories)+1)
	for _, c := range parsed.Categories {
		c = strings.TrimSpace(c)
		if c != "" && !strings.EqualFold(c, CategoryOther) {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("taxonomy file %s contains no categories", path)
	}
	cleaned = append(cleaned, CategoryOther)

	taxonomyMu.Lock()
	categories = cleaned
	categoryIx = buildIndex(cleaned)
	taxonomyMu.Unlock()

	return nil
}

// Categories returns the active taxonomy.
func Categories() []string {
	taxonomyMu.RLock()
	defer taxonomyMu.RUnlock()
	return append([]string(nil), categories...)
}

// CanonicalCategory maps free-text input onto the taxonomy, case-insensitively.
// Unrecognized or empty values map to "Other".
func CanonicalCategory(input string) string {
	taxonomyMu.RLock()
	defer taxonomyMu.RUnlock()

	if canonical, ok := categoryIx[strings.ToLower(strings.TrimSpace(input))]; ok {
		return canonical
	}
	return CategoryOther
}

func buildIndex(list []string) map[string]string {
	ix := make(map[string]string, len(list))
	for _, c := range list {
		ix[strings.ToLower(c)] = c
	}
	return ix
}
