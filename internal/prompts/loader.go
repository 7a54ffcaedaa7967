// Package prompts holds the LLM prompt templates used by the interview
// pipeline. The resume-parsing, interviewer, and analyst prompts live in
// embedded JSON files, one file per pipeline stage, keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// library maps filename -> prompt key -> template text. The embedded set is
// small and static, so every file is parsed together on first access.
var (
	loadOnce sync.Once
	library  map[string]map[string]string
	loadErr  error
)

func load() {
	names, err := fs.Glob(templateFS, "*.json")
	if err != nil {
		loadErr = err
		return
	}

	library = make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := templateFS.ReadFile(name)
		if err != nil {
			loadErr = fmt.Errorf("failed to read prompt file %s: %w", name, err)
			return
		}

		set := make(map[string]string)
		if err := json.Unmarshal(data, &set); err != nil {
			loadErr = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
			return
		}
		library[name] = set
	}
}

// Get returns the template stored under key in the named file. The filename
// carries no path component (e.g. "interviewer.json").
func Get(filename, key string) (string, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return "", loadErr
	}

	set, ok := library[filename]
	if !ok {
		return "", fmt.Errorf("unknown prompt file %s", filename)
	}

	template, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for prompts the pipeline cannot run without. It panics
// instead of returning an error, so a missing template surfaces on the
// first request that needs it rather than as a silent empty prompt.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("load prompt: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders in template with the matching
// values from data. Placeholders with no entry in data are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}

	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the prompt keys available in the named file.
func List(filename string) ([]string, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}

	set, ok := library[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys, nil
}
