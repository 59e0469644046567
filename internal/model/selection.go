// Package model defines the core selection ledger data types.
package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// SelectionRecord is one ledger entry: the models a reviewer has selected
// for a single item. SelectedModels behaves as an ordered set; insertion
// order is preserved for stable display, duplicates are never stored.
type SelectionRecord struct {
	SelectedModels []string  `json:"selected_models"`
	ComparisonDate time.Time `json:"comparison_date"`
}

// Has reports whether the given model is already selected.
func (r SelectionRecord) Has(model string) bool {
	return slices.Contains(r.SelectedModels, model)
}

// Clone returns a copy that shares no backing storage with r.
func (r SelectionRecord) Clone() SelectionRecord {
	return SelectionRecord{
		SelectedModels: slices.Clone(r.SelectedModels),
		ComparisonDate: r.ComparisonDate,
	}
}

// Ledger maps item id to its selection record. Absence of a key means
// "no selections yet", not an error.
type Ledger map[string]SelectionRecord

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, rec := range l {
		out[id] = rec.Clone()
	}
	return out
}

// ParseLedger decodes a ledger from JSON. Accepts both the bare on-disk
// ledger object and the combined snapshot written by export, which
// wraps the ledger in a "selections" key.
func ParseLedger(data []byte) (Ledger, error) {
	var combined struct {
		Selections Ledger `json:"selections"`
	}
	if err := json.Unmarshal(data, &combined); err == nil && combined.Selections != nil {
		return combined.Selections, nil
	}

	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}
	if ledger == nil {
		ledger = Ledger{}
	}
	return ledger, nil
}

// Stats maps model name to the number of distinct items that selected it.
// Counts only ever grow under normal operation.
type Stats map[string]int

// Clone returns a copy of the stats table.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for name, n := range s {
		out[name] = n
	}
	return out
}

// DefaultModels is the seeded set of known model names. A reviewer may
// still select a model outside this set; it is added on first use.
var DefaultModels = []string{"OpenAI", "DeepSeek", "LLaMA", "Qwen"}
