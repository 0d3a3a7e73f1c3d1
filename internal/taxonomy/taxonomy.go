// Package taxonomy holds the label vocabulary offered to annotators and
// validates submitted selections against it.
package taxonomy

import (
	"fmt"
	"sort"

	"easel/internal/config"
	"easel/internal/queue"
)

// Label is one selectable value within a category.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category groups related labels.
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Labels []Label `json:"labels"`
}

// Vocabulary is the full set of categories a deployment offers. An empty
// vocabulary accepts any selection unless strict mode is enabled, in
// which case configuration validation already refused to load it.
type Vocabulary struct {
	strict     bool
	categories []Category
	labels     map[string]map[string]struct{}
}

// FromConfig builds a vocabulary from the configured taxonomy.
func FromConfig(cfg config.Taxonomy) *Vocabulary {
	vocab := &Vocabulary{
		strict: cfg.Strict,
		labels: make(map[string]map[string]struct{}, len(cfg.Categories)),
	}
	for _, category := range cfg.Categories {
		entry := Category{ID: category.ID, Name: category.Name}
		ids := make(map[string]struct{}, len(category.Labels))
		for _, label := range category.Labels {
			entry.Labels = append(entry.Labels, Label{ID: label.ID, Name: label.Name})
			ids[label.ID] = struct{}{}
		}
		vocab.categories = append(vocab.categories, entry)
		vocab.labels[category.ID] = ids
	}
	return vocab
}

// Strict reports whether unknown selections are rejected.
func (v *Vocabulary) Strict() bool {
	return v.strict
}

// Categories returns the vocabulary in configuration order.
func (v *Vocabulary) Categories() []Category {
	out := make([]Category, len(v.categories))
	copy(out, v.categories)
	return out
}

// Validate checks a submitted selection. In strict mode every category
// and label must exist in the vocabulary; otherwise selections pass
// through untouched.
func (v *Vocabulary) Validate(selection queue.Labels) error {
	if !v.strict {
		return nil
	}
	categories := make([]string, 0, len(selection))
	for category := range selection {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		known, ok := v.labels[category]
		if !ok {
			return fmt.Errorf("unknown category %q", category)
		}
		for _, label := range selection[category] {
			if _, ok := known[label]; !ok {
				return fmt.Errorf("unknown label %q in category %q", label, category)
			}
		}
	}
	return nil
}
