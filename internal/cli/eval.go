package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// defaultEvalPoints is the number of evenly spaced times eval prints when
// no times are given.
const defaultEvalPoints = 11

type evalFlags struct {
	sets   []string
	time   string
	times  string
	points int
}

// evalRow is one evaluated time.
type evalRow struct {
	Years float64  `json:"years"`
	Time  float64  `json:"time"`
	Loss  float64  `json:"loss"`
	Rate  *float64 `json:"rate,omitempty"`
}

type evalResult struct {
	Identifier string             `json:"identifier"`
	Title      string             `json:"title"`
	Units      types.Units        `json:"units"`
	Parameters types.ParameterSet `json:"parameters"`
	Rows       []evalRow          `json:"rows"`
}

func newEvalCmd() *cobra.Command {
	var ef evalFlags
	cmd := &cobra.Command{
		Use:   "eval <identifier>",
		Short: "Evaluate a model at given times",
		Long: "Validate the parameters, configure the model and print the material loss\n" +
			"at each time. Times are given in years and converted to the model's own\n" +
			"time unit. Without --time or --times the model is evaluated at evenly spaced times\n" +
			"over the configured horizon.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], ef)
		},
	}
	cmd.Flags().StringArrayVar(&ef.sets, "set", nil, "parameter assignment key=value (repeatable)")
	cmd.Flags().StringVar(&ef.time, "time", "", "time in years")
	cmd.Flags().StringVar(&ef.times, "times", "", "comma-separated times in years")
	cmd.MarkFlagsMutuallyExclusive("time", "times")
	cmd.Flags().IntVar(&ef.points, "points", defaultEvalPoints, "number of times over the horizon when --time is not given")
	return cmd
}

func runEval(cmd *cobra.Command, identifier string, ef evalFlags) (err error) {
	params, err := parseSets(ef.sets)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.finish(&err)

	years, err := evalTimes(ef, ws.cfg.Horizon)
	if err != nil {
		return err
	}

	cat, err := ws.catalog(types.KindModel)
	if err != nil {
		return err
	}
	defer cat.Close()

	e, err := ws.evaluator(cat, identifier, params)
	if err != nil {
		return err
	}
	tu, err := units.ParseTime(e.Units().Time)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", identifier, err)
	}

	start := time.Now()
	rater, hasRate := e.(types.GrowthRater)
	rows := make([]evalRow, len(years))
	for i, y := range years {
		t := tu.FromYears(y)
		rows[i] = evalRow{Years: y, Time: t, Loss: e.Loss(t)}
		if hasRate {
			if r := rater.GrowthRate(t); !math.IsInf(r, 0) && !math.IsNaN(r) {
				rows[i].Rate = &r
			}
		}
	}
	ws.observe(e, len(rows), start)

	res := evalResult{
		Identifier: e.Identifier(),
		Title:      e.Title(),
		Units:      e.Units(),
		Parameters: configured(e, params),
		Rows:       rows,
	}
	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", res.Title)
	header := []string{"YEARS", "TIME [" + res.Units.Time + "]", "LOSS [" + res.Units.Loss + "]"}
	if hasRate {
		header = append(header, "RATE")
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{formatFloat(r.Years), formatFloat(r.Time), formatFloat(r.Loss)}
		if r.Rate != nil {
			table[i] = append(table[i], formatFloat(*r.Rate))
		} else if hasRate {
			table[i] = append(table[i], "-")
		}
	}
	return printTable(out, header, table)
}

func evalTimes(ef evalFlags, horizon float64) ([]float64, error) {
	switch {
	case ef.time != "":
		return parseTimes(ef.time)
	case ef.times != "":
		return parseTimes(ef.times)
	}
	if ef.points < 2 {
		return nil, fmt.Errorf("%w: --points must be at least 2", errUsage)
	}
	return floats.Span(make([]float64, ef.points), 0, horizon), nil
}

// configured returns the full parameter set of e when it exposes one.
func configured(e types.Evaluator, given types.ParameterSet) types.ParameterSet {
	if p, ok := e.(interface{ Parameters() types.ParameterSet }); ok {
		return p.Parameters()
	}
	return types.WithDefaults(e.Schema(), given)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
