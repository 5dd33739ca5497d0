package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/corrosim/internal/logging"
	"github.com/mesh-intelligence/corrosim/internal/plot"
	"github.com/mesh-intelligence/corrosim/internal/render"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

type plotFlags struct {
	model        string
	compare      []string
	measurements []string
	sets         []string
	horizon      float64
	resolution   int
	out          string
	format       string
	title        string
	width        int
	height       int
}

type plotResult struct {
	Session string      `json:"session"`
	Figure  plot.Figure `json:"figure"`
	Files   []string    `json:"files,omitempty"`
}

func newPlotCmd() *cobra.Command {
	var pf plotFlags
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot models against each other and against measurements",
		Long: "Sample the live model and every comparison model over the horizon, add\n" +
			"the measured series and group them into panels by axis labels. With --out\n" +
			"the panels are rendered to PNG or SVG; otherwise the figure is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, pf)
		},
	}
	cmd.Flags().StringVar(&pf.model, "model", "", "live model identifier")
	cmd.Flags().StringArrayVar(&pf.compare, "compare", nil, "comparison model identifier (repeatable)")
	cmd.Flags().StringArrayVar(&pf.measurements, "measurement", nil, "measurement identifier (repeatable)")
	cmd.Flags().StringArrayVar(&pf.sets, "set", nil, "parameter assignment identifier.key=value (repeatable)")
	cmd.Flags().Float64Var(&pf.horizon, "horizon", 0, "time horizon in years (default from config)")
	cmd.Flags().IntVar(&pf.resolution, "resolution", 0, "samples per curve (default from config)")
	cmd.Flags().StringVar(&pf.out, "out", "", "image file to write, .png or .svg")
	cmd.Flags().StringVar(&pf.format, "format", "", "image format when --out has no extension")
	cmd.Flags().StringVar(&pf.title, "title", "", "figure title")
	cmd.Flags().IntVar(&pf.width, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&pf.height, "height", render.DefaultHeight, "image height in pixels")
	return cmd
}

func runPlot(cmd *cobra.Command, pf plotFlags) (err error) {
	if pf.model == "" && len(pf.compare) == 0 && len(pf.measurements) == 0 {
		return fmt.Errorf("%w: give --model, --compare or --measurement", errUsage)
	}
	scoped, err := parseScopedSets(pf.sets)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.finish(&err)

	kinds := []types.Kind{types.KindModel}
	if len(pf.measurements) > 0 {
		kinds = append(kinds, types.KindMeasurement)
	}
	cat, err := ws.catalog(kinds...)
	if err != nil {
		return err
	}
	defer cat.Close()

	session, err := plot.NewSession()
	if err != nil {
		return err
	}
	req := plot.Request{
		Title:      pf.title,
		Horizon:    ws.cfg.Horizon,
		Resolution: ws.cfg.Resolution,
	}
	if pf.horizon != 0 {
		req.Horizon = pf.horizon
	}
	if pf.resolution != 0 {
		req.Resolution = pf.resolution
	}

	if pf.model != "" {
		if req.Current, err = ws.evaluator(cat, pf.model, scoped[pf.model]); err != nil {
			return err
		}
	}
	// Every comparison member is its own instance.
	for _, id := range pf.compare {
		e, err := ws.evaluator(cat, id, scoped[id])
		if err != nil {
			return err
		}
		session.Add(e)
	}
	req.Models = session.Members()
	for _, id := range pf.measurements {
		series, err := ws.measurement(cat, id, scoped[id])
		if err != nil {
			return err
		}
		req.Measurements = append(req.Measurements, series...)
	}
	if req.Title == "" {
		req.Title = defaultTitle(req)
	}

	start := time.Now()
	fig, err := plot.Compare(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	for _, e := range append([]types.Evaluator{req.Current}, req.Models...) {
		if e != nil {
			ws.observe(e, req.Resolution, start)
		}
	}
	ws.logger.V(logging.DEBUG).Info("figure built", "session", session.ID, "series", len(fig.Series), "panels", len(fig.Panels))

	res := plotResult{Session: session.ID.String(), Figure: fig}
	if pf.out != "" {
		if res.Files, err = writeImages(ws, pf, fig); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode || pf.out == "" {
		return printJSON(out, res)
	}
	for _, f := range res.Files {
		fmt.Fprintln(out, f)
	}
	return nil
}

// writeImages renders fig next to pf.out. The extension of pf.out selects
// the format unless --format is given.
func writeImages(ws *workspace, pf plotFlags, fig plot.Figure) ([]string, error) {
	ext := strings.TrimPrefix(filepath.Ext(pf.out), ".")
	name := pf.format
	if name == "" {
		name = ext
	}
	format, err := render.ParseFormat(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	base := filepath.Base(pf.out)
	if ext != "" {
		base = strings.TrimSuffix(base, "."+ext)
	}
	files, err := render.WriteFigure(filepath.Dir(pf.out), base, fig, render.Options{
		Title:  fig.Title,
		Format: format,
		Width:  pf.width,
		Height: pf.height,
	})
	ws.metrics.FiguresRendered.WithLabelValues(string(format)).Add(float64(len(files)))
	return files, err
}

func defaultTitle(req plot.Request) string {
	if req.Current != nil {
		return req.Current.Title()
	}
	if len(req.Models) > 0 {
		return "Model comparison"
	}
	return "Measurements"
}
