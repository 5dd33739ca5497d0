package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/corrosim/internal/catalog"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// limitView is the display form of a types.ParameterLimit.
type limitView struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Kind        string `json:"kind"`
	Range       string `json:"range,omitempty"`
	Default     any    `json:"default,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

type showView struct {
	Entry  catalog.Entry `json:"entry"`
	Units  *types.Units  `json:"units,omitempty"`
	Schema []limitView   `json:"schema,omitempty"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <identifier>",
		Short: "Show a record with its formula and parameter limits",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) (err error) {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.finish(&err)

	cat, err := ws.catalog(types.KindModel, types.KindMeasurement)
	if err != nil {
		return err
	}
	defer cat.Close()

	entry, err := cat.Get(args[0])
	if err != nil {
		return fmt.Errorf("record %q: %w", args[0], err)
	}
	view := showView{Entry: entry}

	// A record without a working evaluator is still shown.
	switch entry.Record.Kind {
	case types.KindModel:
		if e, err := ws.evaluator(cat, entry.Record.Identifier, nil); err == nil {
			u := e.Units()
			view.Units = &u
			view.Schema = limitViews(e.Schema())
		} else {
			ws.logger.Info("no evaluator", "identifier", entry.Record.Identifier, "reason", err.Error())
		}
	case types.KindMeasurement:
		if schema, err := ws.measurementSchema(cat, entry.Record.Identifier); err == nil {
			view.Schema = limitViews(schema)
		} else {
			ws.logger.Info("no measurement reader", "identifier", entry.Record.Identifier, "reason", err.Error())
		}
	}

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), view)
	}
	writeShow(cmd.OutOrStdout(), view)
	return nil
}

func limitViews(schema []types.ParameterLimit) []limitView {
	if len(schema) == 0 {
		return nil
	}
	out := make([]limitView, len(schema))
	for i, l := range schema {
		out[i] = limitView{
			Key:         l.Key,
			Description: l.Description,
			Unit:        l.Unit,
			Kind:        string(l.Kind),
			Range:       l.Range(),
			Default:     l.Default,
			Optional:    l.Optional,
		}
	}
	return out
}

func writeShow(w io.Writer, v showView) {
	rec := v.Entry.Record
	fmt.Fprintf(w, "Identifier:   %s\n", rec.Identifier)
	fmt.Fprintf(w, "Kind:         %s\n", rec.Kind)
	fmt.Fprintf(w, "Process type: %s\n", orDash(v.Entry.ProcessType))
	fmt.Fprintf(w, "Title:        %s\n", orDash(rec.Title))
	if rec.Reference != nil {
		fmt.Fprintf(w, "Reference:    %s %s\n", rec.Reference.Identifier, rec.Reference.Title)
		if rec.Reference.DOI != "" {
			fmt.Fprintf(w, "DOI:          %s\n", rec.Reference.DOI)
		}
	}
	if len(rec.Tags) > 0 {
		fmt.Fprintf(w, "Tags:         %s\n", strings.Join(rec.Tags, ", "))
	}
	fmt.Fprintf(w, "Path:         %s\n", rec.Path)
	if v.Units != nil {
		fmt.Fprintf(w, "Units:        %s, %s\n", v.Units.Time, v.Units.Loss)
	}
	if rec.Description != "" {
		fmt.Fprintf(w, "\n%s\n", rec.Description)
	}
	if rec.SpecialNote != "" {
		fmt.Fprintf(w, "\nNote: %s\n", rec.SpecialNote)
	}
	if f := rec.FormulaText(); f != "" {
		fmt.Fprintf(w, "\nFormula:\n%s\n", f)
	}
	if len(rec.Parameters) > 0 {
		fmt.Fprintln(w, "\nDeclared parameters:")
		rows := make([][]string, len(rec.Parameters))
		for i, p := range rec.Parameters {
			rows[i] = []string{p.Key, orDash(p.Type), p.Description}
		}
		printTable(w, []string{"KEY", "TYPE", "DESCRIPTION"}, rows)
	} else if rec.ParameterText != "" {
		fmt.Fprintf(w, "\nParameters: %s\n", rec.ParameterText)
	}
	if len(v.Schema) > 0 {
		fmt.Fprintln(w, "\nAccepted parameters:")
		rows := make([][]string, len(v.Schema))
		for i, l := range v.Schema {
			def := "-"
			if l.Default != nil {
				def = fmt.Sprint(l.Default)
			}
			rows[i] = []string{l.Key, l.Range, def, l.Description}
		}
		printTable(w, []string{"KEY", "RANGE", "DEFAULT", "DESCRIPTION"}, rows)
	}
}
