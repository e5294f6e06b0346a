package catalog

import (
	"sort"
	"strings"
	"unicode"

	"minimarket/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so "Azúcar" matches "azucar".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Filter is a catalog query. Empty fields match everything.
type Filter struct {
	Search   string
	Category string
}

// Match reports whether p satisfies f. Search looks at name, code and brand.
func (f Filter) Match(p model.Product) bool {
	if f.Category != "" && Fold(p.Category) != Fold(f.Category) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := Fold(strings.TrimSpace(f.Search))
	return strings.Contains(Fold(p.Name), q) ||
		strings.Contains(Fold(p.Code), q) ||
		strings.Contains(Fold(p.Brand), q)
}

// Apply returns the products matching f, preserving order.
func (f Filter) Apply(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// SortByName orders products with Spanish collation ("ñ" after "n").
func SortByName(products []model.Product) {
	c := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})
}

// Categories returns the distinct categories in Spanish order.
func Categories(products []model.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	c := collate.New(language.Spanish, collate.IgnoreCase)
	c.SortStrings(out)
	return out
}
