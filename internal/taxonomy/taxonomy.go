// Package taxonomy holds the fixed risk categories and bucket groupings for
// each supported contract type. The tables are parsed once from embedded YAML
// and never change at runtime.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"contractlens-backend/internal/contracttype"
)

// Severity of a risk category.
type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

// Rank orders severities for sorting; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

// ParseSeverity returns the severity named by s, case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	switch v := Severity(strings.ToLower(strings.TrimSpace(s))); v {
	case Low, Medium, High:
		return v, true
	}
	return "", false
}

// Category is one risk the analysis must address for a contract type.
type Category struct {
	ID              string   `yaml:"id" json:"id"`
	Label           string   `yaml:"label" json:"label"`
	Keywords        []string `yaml:"keywords" json:"keywords"`
	WhyItMatters    string   `yaml:"why_it_matters" json:"whyItMatters"`
	Evidence        string   `yaml:"evidence" json:"evidence"`
	DefaultSeverity Severity `yaml:"default_severity" json:"defaultSeverity"`
}

// RiskItem is a bucket member.
type RiskItem struct {
	RiskID   string `json:"riskId"`
	RiskName string `json:"riskName"`
}

// Bucket groups risks by theme for the mentioned/not-mentioned view.
type Bucket struct {
	BucketName string     `json:"bucketName"`
	Items      []RiskItem `json:"items"`
}

type bucketDoc struct {
	Name  string   `yaml:"name"`
	Risks []string `yaml:"risks"`
}

type typeDoc struct {
	Type       string      `yaml:"type"`
	Categories []Category  `yaml:"categories"`
	Buckets    []bucketDoc `yaml:"buckets"`
}

type entry struct {
	categories []Category
	buckets    []Bucket
}

//go:embed data/taxonomy.yaml
var rawTaxonomy []byte

var (
	tables map[contracttype.Type]entry
	byID   map[string]Category
)

func init() {
	var err error
	tables, byID, err = parse(rawTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("taxonomy: %v", err))
	}
}

func parse(data []byte) (map[contracttype.Type]entry, map[string]Category, error) {
	var docs []typeDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode taxonomy: %w", err)
	}

	out := make(map[contracttype.Type]entry, len(docs))
	ids := make(map[string]Category)
	for _, doc := range docs {
		t := contracttype.Type(doc.Type)
		if !contracttype.IsValid(t) {
			return nil, nil, fmt.Errorf("unknown contract type %q", doc.Type)
		}
		if len(doc.Categories) == 0 {
			return nil, nil, fmt.Errorf("%s: no categories", t)
		}

		local := make(map[string]Category, len(doc.Categories))
		labels := make(map[string]bool, len(doc.Categories))
		for _, c := range doc.Categories {
			if _, dup := local[c.ID]; dup || c.ID == "" {
				return nil, nil, fmt.Errorf("%s: bad or duplicate id %q", t, c.ID)
			}
			if labels[c.Label] || c.Label == "" {
				return nil, nil, fmt.Errorf("%s: bad or duplicate label %q", t, c.Label)
			}
			if c.DefaultSeverity.Rank() == 0 {
				return nil, nil, fmt.Errorf("%s/%s: invalid severity %q", t, c.ID, c.DefaultSeverity)
			}
			local[c.ID] = c
			labels[c.Label] = true
			if _, seen := ids[c.ID]; !seen {
				ids[c.ID] = c
			}
		}

		buckets := make([]Bucket, 0, len(doc.Buckets))
		for _, b := range doc.Buckets {
			items := make([]RiskItem, 0, len(b.Risks))
			for _, id := range b.Risks {
				c, ok := local[id]
				if !ok {
					return nil, nil, fmt.Errorf("%s: bucket %q references unknown risk %q", t, b.Name, id)
				}
				items = append(items, RiskItem{RiskID: c.ID, RiskName: c.Label})
			}
			buckets = append(buckets, Bucket{BucketName: b.Name, Items: items})
		}

		out[t] = entry{categories: doc.Categories, buckets: buckets}
	}

	if _, ok := out[contracttype.Default]; !ok {
		return nil, nil, fmt.Errorf("missing default type %s", contracttype.Default)
	}
	return out, ids, nil
}

func lookup(contractType string) entry {
	if e, ok := tables[contracttype.Normalize(contractType)]; ok {
		return e
	}
	return tables[contracttype.Default]
}

// LoadCategories returns the ordered categories for contractType. Unknown
// types resolve to the default type's categories, never an empty list.
func LoadCategories(contractType string) []Category {
	src := lookup(contractType).categories
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// LoadBucketDefs returns the ordered buckets for contractType.
func LoadBucketDefs(contractType string) []Bucket {
	src := lookup(contractType).buckets
	out := make([]Bucket, len(src))
	for i, b := range src {
		out[i] = Bucket{BucketName: b.BucketName, Items: append([]RiskItem(nil), b.Items...)}
	}
	return out
}

// RiskIDs lists every risk id referenced by the buckets of contractType.
func RiskIDs(contractType string) []string {
	var ids []string
	for _, b := range lookup(contractType).buckets {
		for _, it := range b.Items {
			ids = append(ids, it.RiskID)
		}
	}
	return ids
}

// CategoryFor returns the category with the given id for contractType.
func CategoryFor(contractType, id string) (Category, bool) {
	for _, c := range lookup(contractType).categories {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Category{}, false
}

// ByID finds a category by id across all contract types.
func ByID(id string) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// Search returns the categories of contractType whose label, keywords or
// evidence hint contain keyword.
func Search(contractType, keyword string) []Category {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return nil
	}
	var out []Category
	for _, c := range lookup(contractType).categories {
		if strings.Contains(strings.ToLower(c.Label), k) || strings.Contains(strings.ToLower(c.Evidence), k) {
			out = append(out, c)
			continue
		}
		for _, kw := range c.Keywords {
			if strings.Contains(strings.ToLower(kw), k) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
