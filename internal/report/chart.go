package report

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/pkg/td"
)

type CurvePoint struct {
	Episode int
	Win     float64
	Draw    float64
	Loss    float64
	States  int
}

// Curve collects training checkpoints into a learning curve.
type Curve struct {
	Points []CurvePoint
}

func (c *Curve) Add(cp td.Checkpoint) {
	c.Points = append(c.Points, CurvePoint{
		Episode: cp.Episode,
		Win:     cp.Evaluation.WinRate(),
		Draw:    cp.Evaluation.DrawRate(),
		Loss:    cp.Evaluation.LossRate(),
		States:  cp.Stats.States,
	})
}

func (c *Curve) Render(w io.Writer) error {
	episodes := make([]string, 0, len(c.Points))
	win := make([]opts.LineData, 0, len(c.Points))
	draw := make([]opts.LineData, 0, len(c.Points))
	loss := make([]opts.LineData, 0, len(c.Points))
	states := make([]opts.LineData, 0, len(c.Points))

	for _, p := range c.Points {
		episodes = append(episodes, strconv.Itoa(p.Episode))
		win = append(win, opts.LineData{Value: p.Win})
		draw = append(draw, opts.LineData{Value: p.Draw})
		loss = append(loss, opts.LineData{Value: p.Loss})
		states = append(states, opts.LineData{Value: p.States})
	}

	rates := charts.NewLine()
	rates.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Greedy play vs random opponent",
			Subtitle: "outcome rate per checkpoint",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	rates.SetXAxis(episodes).
		AddSeries("win", win).
		AddSeries("draw", draw).
		AddSeries("loss", loss)

	size := charts.NewLine()
	size.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Value table size",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	size.SetXAxis(episodes).AddSeries("states", states)

	page := components.NewPage()
	page.AddCharts(rates, size)

	return page.Render(w)
}

func (c *Curve) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create chart dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create chart")
	}
	defer f.Close()

	return errors.Wrap(c.Render(f), "render chart")
}
