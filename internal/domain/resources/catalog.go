package resources

import (
	"errors"
	"sort"
	"strings"
)

// Resource is one entry in the legal-resources catalog.
type Resource struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// ErrMissingField rejects an add with any empty field.
var ErrMissingField = errors.New("name, url and category are required")

// DefaultCategory buckets entries without a category.
const DefaultCategory = "Uncategorized"

// Seed is the fixed initial catalog every session starts from.
func Seed() []Resource {
	return []Resource{
		{Name: "UCC Article 3 - Negotiable Instruments", URL: "https://www.law.cornell.edu/ucc/3", Category: "UCC"},
		{Name: "UCC Article 9 - Secured Transactions", URL: "https://www.law.cornell.edu/ucc/9", Category: "UCC"},
		{Name: "FDCPA Full Text (15 U.S. Code 1692)", URL: "https://www.law.cornell.edu/uscode/text/15/1692", Category: "Federal Law"},
		{Name: "FCRA Full Text (15 U.S. Code 1681)", URL: "https://www.law.cornell.edu/uscode/text/15/1681", Category: "Federal Law"},
		{Name: "CFPB Debt Collection Tools", URL: "https://www.consumerfinance.gov/consumer-tools/debt-collection/", Category: "Consumer Protection"},
		{Name: "FTC Debt Collection FAQs", URL: "https://consumer.ftc.gov/articles/debt-collection-faqs", Category: "Consumer Protection"},
		{Name: "Annual Credit Report", URL: "https://www.annualcreditreport.com", Category: "Credit Reports"},
	}
}

// Catalog holds a session's mutable resource list in insertion order.
// It carries no lock of its own; the owning session serializes access.
type Catalog struct {
	items []Resource
}

// NewCatalog starts from the seed list.
func NewCatalog() *Catalog {
	return &Catalog{items: Seed()}
}

// Add appends a resource. All three fields must be non-empty.
func (c *Catalog) Add(r Resource) error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.URL) == "" ||
		strings.TrimSpace(r.Category) == "" {
		return ErrMissingField
	}
	c.items = append(c.items, r)
	return nil
}

// Filter returns the entries whose name, URL or category contains the
// query, case-insensitively. An empty query returns everything.
func (c *Catalog) Filter(query string) []Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]Resource, len(c.items))
		copy(out, c.items)
		return out
	}
	var out []Resource
	for _, r := range c.items {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.URL), q) ||
			strings.Contains(strings.ToLower(r.Category), q) {
			out = append(out, r)
		}
	}
	return out
}

// Group is a category bucket of filtered results.
type Group struct {
	Category string     `json:"category"`
	Items    []Resource `json:"items"`
}

// GroupByCategory buckets entries by category (empty category falls into
// DefaultCategory) and orders groups by ascending category label.
func GroupByCategory(items []Resource) []Group {
	buckets := map[string][]Resource{}
	for _, r := range items {
		cat := r.Category
		if strings.TrimSpace(cat) == "" {
			cat = DefaultCategory
		}
		buckets[cat] = append(buckets[cat], r)
	}
	labels := make([]string, 0, len(buckets))
	for cat := range buckets {
		labels = append(labels, cat)
	}
	sort.Strings(labels)

	groups := make([]Group, 0, len(labels))
	for _, cat := range labels {
		groups = append(groups, Group{Category: cat, Items: buckets[cat]})
	}
	return groups
}
