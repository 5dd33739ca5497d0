package types

import (
	"strings"
	"time"
)

// Kind distinguishes model records from measurement records.
type Kind string

// Record kinds. The kind is also the last token of a process-type tag.
const (
	KindModel       Kind = "model"
	KindMeasurement Kind = "measurement"
)

// Valid reports whether k is a known record kind.
func (k Kind) Valid() bool {
	return k == KindModel || k == KindMeasurement
}

// Record describes one model or measurement as read from a record file.
// A Record is immutable after load.
type Record struct {
	Identifier    string           `json:"identifier"`               // Unique key within a loaded collection.
	Title         string           `json:"title"`                    // Display name.
	Description   string           `json:"description,omitempty"`    // Free text.
	SpecialNote   string           `json:"special_note,omitempty"`   // Optional "special notes" text.
	Tags          []string         `json:"tags"`                     // Unordered tag set; empty when absent.
	Reference     *Reference       `json:"reference,omitempty"`      // Target of the first link, if any.
	Parameters    []ParameterField `json:"parameters,omitempty"`     // Ordered parameter schema from the Parameters extra.
	ParameterText string           `json:"parameter_text,omitempty"` // Raw Parameters extra when it is not a list.
	Formula       []FormulaEntry   `json:"formula,omitempty"`        // Formula extra; a plain string becomes one entry.
	Files         []FileRef        `json:"files,omitempty"`          // Attached data files.
	Creator       *Creator         `json:"creator,omitempty"`        // Record author, if present.
	CreatedAt     time.Time        `json:"created_at,omitzero"`      // Zero when absent.
	LastModified  time.Time        `json:"last_modified,omitzero"`   // Zero when absent.
	Kind          Kind             `json:"kind"`                     // Set by the loader call, not by the file.
	Path          string           `json:"path"`                     // Location of the record file.
}

// Reference is the linked publication of a record.
type Reference struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title,omitempty"`
	DOI        string `json:"doi,omitempty"`
	Journal    string `json:"journal,omitempty"`
}

// ParameterField is one entry of a record's parameter schema.
type ParameterField struct {
	Key         string `json:"key"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// FormulaEntry is one entry of a record's formula block. Key is empty when
// the formula was given as plain text.
type FormulaEntry struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// FileRef names a data file attached to a record.
type FileRef struct {
	Name     string `json:"name"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// Creator identifies the author of a record.
type Creator struct {
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid,omitempty"`
}

// HasTag reports whether the record carries tag exactly.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ReferenceID returns the identifier used to locate the record's tables:
// the linked reference when present, otherwise the record identifier with
// its model_ or exp_data_ prefix removed.
func (r Record) ReferenceID() string {
	if r.Reference != nil && r.Reference.Identifier != "" {
		return r.Reference.Identifier
	}
	id := strings.TrimPrefix(r.Identifier, "model_")
	return strings.TrimPrefix(id, "exp_data_")
}

// FormulaText joins the formula entries into display text.
func (r Record) FormulaText() string {
	parts := make([]string, 0, len(r.Formula))
	for _, f := range r.Formula {
		if f.Key == "" {
			parts = append(parts, f.Value)
			continue
		}
		parts = append(parts, f.Key+": "+f.Value)
	}
	return strings.Join(parts, "\n")
}
