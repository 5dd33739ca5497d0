package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Extras keys extracted from a record file.
const (
	ExtraParameters = "Parameters"
	ExtraFormula    = "Formula"
)

// recordFile mirrors the record export format. Unknown fields are ignored.
type recordFile struct {
	Identifier   string     `json:"identifier"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	SpecialNotes string     `json:"special notes"`
	Tags         []string   `json:"tags"`
	Links        []linkFile `json:"links"`
	Extras       []extra    `json:"extras"`
	Files        []fileRef  `json:"files"`
	Creator      *struct {
		DisplayName string `json:"displayname"`
		ORCID       string `json:"orcid"`
	} `json:"creator"`
	CreatedAt    string `json:"created_at"`
	LastModified string `json:"last_modified"`
}

type linkFile struct {
	RecordTo *struct {
		Identifier string  `json:"identifier"`
		Title      string  `json:"title"`
		Extras     []extra `json:"extras"`
	} `json:"record_to"`
}

type fileRef struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
	Checksum string `json:"checksum"`
}

// extra is one key/value entry. Value is a scalar, a string or a nested
// list of extras.
type extra struct {
	Key         string          `json:"key"`
	Type        string          `json:"type"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
}

// text returns the value as display text: strings unquoted, other JSON
// values verbatim, null as "".
func (e extra) text() string {
	v := bytes.TrimSpace(e.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

// nested decodes the value as a list of extras; a list of plain strings
// becomes extras without keys. ok is false when the value is not a JSON
// array.
func (e extra) nested() ([]extra, bool, error) {
	v := bytes.TrimSpace(e.Value)
	if len(v) == 0 || v[0] != '[' {
		return nil, false, nil
	}
	var list []extra
	if err := json.Unmarshal(v, &list); err == nil {
		return list, true, nil
	}
	list = nil
	var plain []string
	if err := json.Unmarshal(v, &plain); err != nil {
		return nil, true, fmt.Errorf("extra %s: value is neither a list of entries nor a list of strings", e.Key)
	}
	for _, s := range plain {
		raw, _ := json.Marshal(s)
		list = append(list, extra{Value: raw})
	}
	return list, true, nil
}

// ReadRecord parses the record file at path.
func ReadRecord(path string, kind types.Kind) (types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Record{}, &types.ParseError{Path: path, Err: err}
	}
	return ParseRecord(data, path, kind)
}

// ParseRecord decodes one record file. Errors are *types.ParseError.
func ParseRecord(data []byte, path string, kind types.Kind) (types.Record, error) {
	var rf recordFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return types.Record{}, &types.ParseError{Path: path, Err: err}
	}
	if strings.TrimSpace(rf.Identifier) == "" {
		return types.Record{}, &types.ParseError{Path: path, Err: fmt.Errorf("missing identifier")}
	}

	rec := types.Record{
		Identifier:   strings.TrimSpace(rf.Identifier),
		Title:        rf.Title,
		Description:  rf.Description,
		SpecialNote:  rf.SpecialNotes,
		Tags:         rf.Tags,
		Kind:         kind,
		Path:         path,
		CreatedAt:    parseTime(rf.CreatedAt),
		LastModified: parseTime(rf.LastModified),
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if rf.Creator != nil {
		rec.Creator = &types.Creator{DisplayName: rf.Creator.DisplayName, ORCID: rf.Creator.ORCID}
	}
	for _, f := range rf.Files {
		rec.Files = append(rec.Files, types.FileRef{Name: f.Name, Size: f.Size, MimeType: f.MimeType, Checksum: f.Checksum})
	}

	if len(rf.Links) > 0 && rf.Links[0].RecordTo != nil {
		to := rf.Links[0].RecordTo
		ref := &types.Reference{Identifier: to.Identifier, Title: to.Title}
		for _, e := range to.Extras {
			switch e.Key {
			case "doi":
				ref.DOI = e.text()
			case "journalName":
				ref.Journal = e.text()
			}
		}
		rec.Reference = ref
	}

	for _, e := range rf.Extras {
		var err error
		switch e.Key {
		case ExtraParameters:
			err = decodeParameters(e, &rec)
		case ExtraFormula:
			err = decodeFormula(e, &rec)
		}
		if err != nil {
			return types.Record{}, &types.ParseError{Path: path, Err: err}
		}
	}
	return rec, nil
}

func decodeParameters(e extra, rec *types.Record) error {
	list, ok, err := e.nested()
	if err != nil {
		return err
	}
	if !ok {
		rec.ParameterText = e.text()
		return nil
	}
	for _, p := range list {
		desc := p.Description
		if desc == "" {
			desc = p.text()
		}
		rec.Parameters = append(rec.Parameters, types.ParameterField{Key: p.Key, Type: p.Type, Description: desc})
	}
	return nil
}

func decodeFormula(e extra, rec *types.Record) error {
	list, ok, err := e.nested()
	if err != nil {
		return err
	}
	if !ok {
		if s := e.text(); s != "" {
			rec.Formula = []types.FormulaEntry{{Value: s}}
		}
		return nil
	}
	for _, f := range list {
		rec.Formula = append(rec.Formula, types.FormulaEntry{Key: f.Key, Value: f.text()})
	}
	return nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
