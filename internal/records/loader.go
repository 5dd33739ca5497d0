// Package records loads model and measurement records from directories of
// record files.
package records

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Skip records one file or record that was left out of a load.
type Skip struct {
	Path string
	Err  error
}

// Report summarises one Load call.
type Report struct {
	Files      int    // Record files found.
	Loaded     int    // Records returned.
	Skipped    []Skip // Files that failed to parse.
	Duplicates []Skip // Records dropped because their identifier was already loaded.
}

// Loader reads record files by extension from one or more directories.
type Loader struct {
	Logger logr.Logger
	Ext    string
}

// NewLoader returns a Loader for .json record files.
func NewLoader(logger logr.Logger) *Loader {
	return &Loader{Logger: logger, Ext: types.DefaultRecordExt}
}

// Load parses every record file in dirs. Directories are read in the order
// given and files within a directory in name order.
//
// A directory that does not exist or holds no record files aborts the call
// with an error wrapping types.ErrConfiguration. A file that fails to parse
// is logged, listed in Report.Skipped and skipped. When two files share an
// identifier the first one read is kept and the later one is listed in
// Report.Duplicates.
func (l *Loader) Load(kind types.Kind, dirs ...string) ([]types.Record, Report, error) {
	var report Report
	if len(dirs) == 0 {
		return nil, report, fmt.Errorf("%w: no %s directories given", types.ErrConfiguration, kind)
	}

	var paths []string
	for _, dir := range dirs {
		found, err := l.list(dir)
		if err != nil {
			return nil, report, err
		}
		paths = append(paths, found...)
	}
	report.Files = len(paths)

	seen := make(map[string]string, len(paths))
	out := make([]types.Record, 0, len(paths))
	for _, path := range paths {
		rec, err := ReadRecord(path, kind)
		if err != nil {
			l.Logger.Info("skipping record file", "path", path, "reason", err.Error())
			report.Skipped = append(report.Skipped, Skip{Path: path, Err: err})
			continue
		}
		if first, ok := seen[rec.Identifier]; ok {
			err := fmt.Errorf("%w: %q in %s, first loaded from %s", types.ErrDuplicate, rec.Identifier, path, first)
			l.Logger.Info("skipping duplicate record", "identifier", rec.Identifier, "path", path, "first", first)
			report.Duplicates = append(report.Duplicates, Skip{Path: path, Err: err})
			continue
		}
		seen[rec.Identifier] = path
		out = append(out, rec)
	}
	report.Loaded = len(out)

	l.Logger.V(1).Info("loaded records", "kind", kind, "files", report.Files, "loaded", report.Loaded,
		"skipped", len(report.Skipped), "duplicates", len(report.Duplicates))
	return out, report, nil
}

// list returns the sorted record files of dir.
func (l *Loader) list(dir string) ([]string, error) {
	ext := l.Ext
	if ext == "" {
		ext = types.DefaultRecordExt
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: record directory %s does not exist", types.ErrConfiguration, dir)
		}
		return nil, fmt.Errorf("%w: reading record directory %s: %v", types.ErrConfiguration, dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", types.ErrConfiguration, ext, dir)
	}
	sort.Strings(paths)
	return paths, nil
}
