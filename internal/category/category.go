package category

import (
	"sort"
	"strings"
)

const (
	SourceDefault = "default"
	SourceUser    = "user"
)

// DefaultCategories are offered to every user, including ones with no records.
var DefaultCategories = []string{
	"Groceries",
	"Utilities",
	"Transport",
	"Dining",
	"Entertainment",
	"Other",
}

type Category struct {
	Name   string
	Source string
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:   c.Name,
		Source: c.Source,
	}
}

// Merge combines the defaults with the user's own labels. Labels equal under
// case folding collapse to the first spelling seen, defaults first. Blank
// labels are dropped and the result is sorted case-insensitively.
func Merge(defaults, own []string) []*Category {
	seen := make(map[string]struct{}, len(defaults)+len(own))
	merged := make([]*Category, 0, len(defaults)+len(own))

	add := func(name, source string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		merged = append(merged, &Category{Name: name, Source: source})
	}

	for _, name := range defaults {
		add(name, SourceDefault)
	}
	for _, name := range own {
		add(name, SourceUser)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return strings.ToLower(merged[i].Name) < strings.ToLower(merged[j].Name)
	})
	return merged
}
