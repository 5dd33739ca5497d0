// Package classify derives the corrosion process type of a record from its
// tags.
package classify

import (
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

const processWord = "corrosion"

// Classified pairs a record with its process type.
type Classified struct {
	Record      types.Record
	ProcessType string
}

// Classify returns the process type of rec. It looks for a tag made of
// exactly three whitespace-separated words where the second is "corrosion"
// and the third is the record kind, and returns "<first word> corrosion".
// Tags are scanned in order; the first match wins.
func Classify(rec types.Record) (string, error) {
	for _, tag := range rec.Tags {
		words := strings.Fields(tag)
		if len(words) != 3 {
			continue
		}
		if words[1] == processWord && words[2] == string(rec.Kind) {
			return words[0] + " " + processWord, nil
		}
	}
	return "", &types.ClassificationError{Identifier: rec.Identifier, Kind: rec.Kind}
}

// ClassifyAll classifies every record. Records that cannot be classified
// are logged, left out of the result and returned as errors; they never stop
// the rest from being classified.
func ClassifyAll(recs []types.Record, logger logr.Logger) ([]Classified, []error) {
	out := make([]Classified, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		pt, err := Classify(rec)
		if err != nil {
			logger.Info("skipping unclassified record", "identifier", rec.Identifier, "reason", err.Error())
			errs = append(errs, err)
			continue
		}
		out = append(out, Classified{Record: rec, ProcessType: pt})
	}
	return out, errs
}

// Group buckets classified records by process type. Records keep their
// input order within a bucket.
func Group(items []Classified) map[string][]types.Record {
	groups := make(map[string][]types.Record)
	for _, c := range items {
		groups[c.ProcessType] = append(groups[c.ProcessType], c.Record)
	}
	return groups
}

// ProcessTypes returns the distinct process types of items, sorted.
func ProcessTypes(items []Classified) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range items {
		if !seen[c.ProcessType] {
			seen[c.ProcessType] = true
			out = append(out, c.ProcessType)
		}
	}
	sort.Strings(out)
	return out
}
