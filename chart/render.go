// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	barWidth   = 18 // points per bar
	baseHeight = 4 * vg.Inch
	rowHeight  = 0.35 * vg.Inch
	chartWidth = 8 * vg.Inch
)

// RenderPNG draws cfg as a PNG bar chart.
func RenderPNG(cfg *Config, w io.Writer) error {
	p, err := build(cfg)
	if err != nil {
		return err
	}

	height := baseHeight
	if cfg.Horizontal {
		if h := vg.Length(len(cfg.Categories)*len(cfg.Series)) * rowHeight; h > height {
			height = h
		}
	}

	wt, err := p.WriterTo(chartWidth, height, "png")
	if err != nil {
		return errors.Wrap(err, "failed to create png canvas")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write png")
	}
	return nil
}

func build(cfg *Config) (*plot.Plot, error) {
	if len(cfg.Categories) == 0 {
		return nil, errors.New("chart has no categories")
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	p.Legend.Top = true

	width := vg.Points(barWidth)
	n := len(cfg.Series)
	hi := 0.0

	for i, s := range cfg.Series {
		values := make(plotter.Values, len(s.Data))
		for j, pt := range s.Data {
			// blank cells draw as an empty bar
			if !math.IsNaN(pt.Value) {
				values[j] = pt.Value
			}
			hi = math.Max(hi, values[j])
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build series %q", s.Name)
		}
		bars.Color = parseHex(s.Color)
		bars.LineStyle.Width = vg.Length(0)
		bars.Horizontal = cfg.Horizontal
		bars.Offset = width * vg.Length(float64(i)-float64(n-1)/2)
		if cfg.Horizontal {
			// categories run bottom-up; keep the first series on top
			bars.Offset = -bars.Offset
		}

		p.Add(bars)
		if n > 1 {
			p.Legend.Add(s.Name, bars)
		}
	}

	if hi == 0 {
		hi = 1
	}
	ticks := cfg.TickLabels()
	if cfg.Horizontal {
		p.NominalY(ticks...)
		p.X.Min = 0
		p.X.Max = hi * 1.15
		p.X.Tick.Marker = percentTicks{}
	} else {
		p.NominalX(ticks...)
		p.Y.Min = 0
		p.Y.Max = hi * 1.15
		p.Y.Tick.Marker = percentTicks{}
		if len(cfg.Categories) > 6 {
			p.X.Tick.Label.Rotation = math.Pi / 4
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
		}
	}

	if n == 1 {
		if err := addValueLabels(p, cfg.Series[0], cfg.Horizontal, hi); err != nil {
			return nil, err
		}
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

func addValueLabels(p *plot.Plot, s Series, horizontal bool, hi float64) error {
	xys := make([]plotter.XY, 0, len(s.Data))
	labels := make([]string, 0, len(s.Data))
	for i, pt := range s.Data {
		if math.IsNaN(pt.Value) {
			continue
		}
		pos := pt.Value + hi*0.02
		if horizontal {
			xys = append(xys, plotter.XY{X: pos, Y: float64(i)})
		} else {
			xys = append(xys, plotter.XY{X: float64(i), Y: pos})
		}
		labels = append(labels, formatPercent(pt.Value))
	}
	if len(xys) == 0 {
		return nil
	}

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return errors.Wrap(err, "failed to build value labels")
	}
	p.Add(l)
	return nil
}

// percentTicks labels a proportion axis in percent.
type percentTicks struct{}

func (percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value*100)
		}
	}
	return ticks
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func parseHex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
