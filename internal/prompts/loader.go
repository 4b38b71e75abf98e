// Package prompts holds the model prompts used for skill discovery. Prompts
// live in embedded JSON files and are filled with named placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// ExtractRequiredSkills lists the skills of a job description. It takes the
// JobText and MaxSkills placeholders.
const ExtractRequiredSkills = "extract-required-skills"

//go:embed *.json
var promptFiles embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// Render fills the named prompt. Every placeholder in the prompt must be given
// a value and every value must have a placeholder, so a renamed field fails
// loudly instead of sending "{{.JobText}}" to the model.
func Render(name string, values map[string]string) (string, error) {
	template, err := lookup(name)
	if err != nil {
		return "", err
	}

	used := make(map[string]bool, len(values))
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := values[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		used[key] = true
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q: no value for %v", name, missing)
	}

	var unused []string
	for key := range values {
		if !used[key] {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return "", fmt.Errorf("prompt %q has no placeholder for %v", name, unused)
	}
	return out, nil
}

// lookup returns the raw template of a prompt
func lookup(name string) (string, error) {
	loadOnce.Do(func() { loaded, loadErr = loadAll() })
	if loadErr != nil {
		return "", loadErr
	}
	template, ok := loaded[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", name)
	}
	return template, nil
}

// loadAll merges every embedded prompt file. Names must be unique across files.
func loadAll() (map[string]string, error) {
	files, err := promptFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}

	all := make(map[string]string)
	for _, f := range files {
		data, err := promptFiles.ReadFile(f.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", f.Name(), err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", f.Name(), err)
		}
		for name, template := range prompts {
			if _, dup := all[name]; dup {
				return nil, fmt.Errorf("prompt %q defined twice (again in %s)", name, f.Name())
			}
			all[name] = template
		}
	}
	return all, nil
}
