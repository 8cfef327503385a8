// Package prompts holds the model prompt templates. Each embedded JSON file maps prompt keys to
// templates with {{.Field}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

//go:embed *.json
var promptFiles embed.FS

// catalogs caches decoded prompt files by name.
var catalogs sync.Map

type catalog map[string]string

// Get returns the prompt stored under key in the named embedded file (e.g. "contacts.json").
func Get(filename, key string) (string, error) {
	c, err := load(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := c[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with data. Placeholders without a value are left as is.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render looks up a prompt and formats it with data.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// Or returns the trimmed value, or fallback when value is blank.
func Or(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// List returns the keys of a prompt file in sorted order.
func List(filename string) ([]string, error) {
	c, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := lo.Keys(c)
	slices.Sort(keys)
	return keys, nil
}

// ClearCache drops every decoded prompt file.
func ClearCache() {
	catalogs.Clear()
}

func load(filename string) (catalog, error) {
	if cached, ok := catalogs.Load(filename); ok {
		return cached.(catalog), nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := catalogs.LoadOrStore(filename, c)
	return actual.(catalog), nil
}
