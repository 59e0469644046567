// Package corpus loads the read-only per-model analysis outputs. Each
// corpus is a JSON object keyed by email id whose values are the fields
// the model produced for that email. This package never mutates the
// files; they are input to the comparison view only.
package corpus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// Corpus maps email id to the analysis fields one model produced.
type Corpus map[string]map[string]any

// Source names one model and the path of its corpus file.
type Source struct {
	Name string
	Path string
}

// Set holds the corpora of all models under comparison, in the order
// they were configured.
type Set struct {
	names []string
	data  map[string]Corpus
}

// LoadSet reads every source. A missing or unparsable corpus is logged
// and replaced with an empty one; loading never fails the caller.
func LoadSet(sources []Source, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}

	set := &Set{data: make(map[string]Corpus, len(sources))}
	for _, src := range sources {
		set.names = append(set.names, src.Name)
		set.data[src.Name] = loadOne(src, logger)
	}
	return set
}

func loadOne(src Source, logger *slog.Logger) Corpus {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		logger.Warn("corpus unavailable", "model", src.Name, "path", src.Path, "error", err)
		return Corpus{}
	}

	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		logger.Warn("corpus unparsable", "model", src.Name, "path", src.Path, "error", err)
		return Corpus{}
	}
	if c == nil {
		c = Corpus{}
	}
	return c
}

// Names returns the model names in configuration order.
func (s *Set) Names() []string {
	return s.names
}

// Corpus returns the corpus for the named model, empty when unknown.
func (s *Set) Corpus(name string) Corpus {
	if c, ok := s.data[name]; ok {
		return c
	}
	return Corpus{}
}

// Totals returns, per model, how many emails its corpus covers.
func (s *Set) Totals() map[string]int {
	totals := make(map[string]int, len(s.names))
	for name, c := range s.data {
		totals[name] = len(c)
	}
	return totals
}

// CommonIDs returns the sorted email ids present in every corpus. The
// comparison view shows only emails all models analyzed.
func (s *Set) CommonIDs() []string {
	if len(s.names) == 0 {
		return nil
	}

	var ids []string
	for id := range s.data[s.names[0]] {
		common := true
		for _, name := range s.names[1:] {
			if _, ok := s.data[name][id]; !ok {
				common = false
				break
			}
		}
		if common {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Fields returns the analysis fields one model produced for one email,
// sorted by field name for stable display, values flattened to strings.
func (s *Set) Fields(name, id string) []Field {
	entry, ok := s.data[name][id]
	if !ok {
		return nil
	}

	fields := make([]Field, 0, len(entry))
	for k, v := range entry {
		fields = append(fields, Field{Name: k, Value: fmt.Sprint(v)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// Field is one rendered name/value pair of an analysis entry.
type Field struct {
	Name  string
	Value string
}
