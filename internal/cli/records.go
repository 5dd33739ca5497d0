package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/corrosim/internal/catalog"
	"github.com/mesh-intelligence/corrosim/internal/models"
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

type listFlags struct {
	processType  string
	tag          string
	search       string
	param        string
	limit        int
	processTypes bool
	tags         bool
}

// listedRecord is one row of the models and measurements commands.
type listedRecord struct {
	Identifier  string   `json:"identifier"`
	Title       string   `json:"title"`
	ProcessType string   `json:"process_type,omitempty"`
	Reference   string   `json:"reference,omitempty"`
	Tags        []string `json:"tags"`
	Registered  bool     `json:"registered"`
	Path        string   `json:"path"`
}

func newListCmd(kind types.Kind) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   string(kind) + "s",
		Short: fmt.Sprintf("List %s records grouped by process type", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, kind, lf)
		},
	}
	cmd.Flags().StringVar(&lf.processType, "process-type", "", "only records of this process type")
	cmd.Flags().StringVar(&lf.tag, "tag", "", "only records carrying this tag")
	cmd.Flags().StringVar(&lf.search, "search", "", "substring of identifier, title or description")
	cmd.Flags().StringVar(&lf.param, "param", "", "only records declaring this parameter key")
	cmd.Flags().IntVar(&lf.limit, "limit", 0, "maximum number of records (0 for all)")
	cmd.Flags().BoolVar(&lf.processTypes, "process-types", false, "list the distinct process types instead")
	cmd.Flags().BoolVar(&lf.tags, "tags", false, "list tags with record counts instead")
	cmd.MarkFlagsMutuallyExclusive("process-types", "tags")
	return cmd
}

func runList(cmd *cobra.Command, kind types.Kind, lf listFlags) (err error) {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.finish(&err)

	cat, err := ws.catalog(kind)
	if err != nil {
		return err
	}
	defer cat.Close()

	out := cmd.OutOrStdout()
	switch {
	case lf.processTypes:
		pts, err := cat.ProcessTypes(kind)
		if err != nil {
			return err
		}
		if flags.jsonMode {
			return printJSON(out, pts)
		}
		for _, pt := range pts {
			fmt.Fprintln(out, pt)
		}
		return nil
	case lf.tags:
		tags, err := cat.Tags()
		if err != nil {
			return err
		}
		if flags.jsonMode {
			return printJSON(out, tags)
		}
		rows := make([][]string, len(tags))
		for i, tc := range tags {
			rows[i] = []string{tc.Tag, fmt.Sprint(tc.Count)}
		}
		return printTable(out, []string{"TAG", "RECORDS"}, rows)
	}

	entries, err := cat.List(catalog.Filter{
		Kind:        kind,
		ProcessType: lf.processType,
		Tag:         lf.tag,
		Text:        lf.search,
		Limit:       lf.limit,
	})
	if err != nil {
		return err
	}
	if lf.param != "" {
		if entries, err = withParameter(cat, entries, lf.param); err != nil {
			return err
		}
	}

	has := registered(ws.env(), kind, ws.cfg.SeriesMeasurements)
	listed := make([]listedRecord, len(entries))
	for i, e := range entries {
		listed[i] = listRow(e, has)
	}
	if flags.jsonMode {
		return printJSON(out, listed)
	}
	if len(listed) == 0 {
		fmt.Fprintf(out, "no %s records\n", kind)
		return nil
	}
	return printGrouped(cmd, listed)
}

// withParameter keeps the entries whose record declares key.
func withParameter(cat *catalog.Catalog, entries []catalog.Entry, key string) ([]catalog.Entry, error) {
	ids, err := cat.ParameterKeys(key)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	out := entries[:0]
	for _, e := range entries {
		if keep[e.Record.Identifier] {
			out = append(out, e)
		}
	}
	return out, nil
}

// registered returns a predicate telling whether an identifier has an
// evaluator or measurement reader.
func registered(env registry.Env, kind types.Kind, seriesIDs []string) func(string) bool {
	if kind == types.KindMeasurement {
		return registry.New(env, models.Measurements(seriesIDs...)).Has
	}
	return registry.New(env, models.Evaluators()).Has
}

func listRow(e catalog.Entry, has func(string) bool) listedRecord {
	r := listedRecord{
		Identifier:  e.Record.Identifier,
		Title:       e.Record.Title,
		ProcessType: e.ProcessType,
		Tags:        e.Record.Tags,
		Registered:  has(e.Record.Identifier),
		Path:        e.Record.Path,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if e.Record.Reference != nil {
		r.Reference = e.Record.Reference.Identifier
	}
	return r
}

// printGrouped prints one table section per process type. Unclassified
// records come last.
func printGrouped(cmd *cobra.Command, listed []listedRecord) error {
	var order []string
	groups := make(map[string][]listedRecord)
	for _, r := range listed {
		if _, ok := groups[r.ProcessType]; !ok {
			order = append(order, r.ProcessType)
		}
		groups[r.ProcessType] = append(groups[r.ProcessType], r)
	}
	if _, ok := groups[""]; ok {
		for i, pt := range order {
			if pt == "" {
				order = append(append(order[:i:i], order[i+1:]...), "")
				break
			}
		}
	}

	out := cmd.OutOrStdout()
	for i, pt := range order {
		if i > 0 {
			fmt.Fprintln(out)
		}
		name := pt
		if name == "" {
			name = "unclassified"
		}
		fmt.Fprintf(out, "%s (%d)\n", name, len(groups[pt]))
		rows := make([][]string, len(groups[pt]))
		for j, r := range groups[pt] {
			mark := ""
			if r.Registered {
				mark = "*"
			}
			rows[j] = []string{mark, r.Identifier, r.Title, strings.Join(r.Tags, ", ")}
		}
		if err := printTable(out, []string{"", "IDENTIFIER", "TITLE", "TAGS"}, rows); err != nil {
			return err
		}
	}
	return nil
}
