package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	return c.validateTaxonomy()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ImageDir) == "" {
		return errors.New("paths.image_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.LeaseSeconds <= 0 {
		return fmt.Errorf("queue.lease_seconds must be positive, got %d", c.Queue.LeaseSeconds)
	}
	return nil
}

func (c *Config) validateTaxonomy() error {
	seenCategories := make(map[string]struct{}, len(c.Taxonomy.Categories))
	for _, category := range c.Taxonomy.Categories {
		if category.ID == "" {
			return errors.New("taxonomy: category id must not be empty")
		}
		if _, dup := seenCategories[category.ID]; dup {
			return fmt.Errorf("taxonomy: duplicate category %q", category.ID)
		}
		seenCategories[category.ID] = struct{}{}

		if len(category.Labels) == 0 {
			return fmt.Errorf("taxonomy: category %q has no labels", category.ID)
		}
		seenLabels := make(map[string]struct{}, len(category.Labels))
		for _, label := range category.Labels {
			if label.ID == "" {
				return fmt.Errorf("taxonomy: category %q has a label with empty id", category.ID)
			}
			if _, dup := seenLabels[label.ID]; dup {
				return fmt.Errorf("taxonomy: category %q has duplicate label %q", category.ID, label.ID)
			}
			seenLabels[label.ID] = struct{}{}
		}
	}
	if c.Taxonomy.Strict && len(c.Taxonomy.Categories) == 0 {
		return errors.New("taxonomy: strict mode requires at least one category")
	}
	return nil
}
