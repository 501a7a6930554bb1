// Package charts renders deck analysis results as interactive HTML charts.
package charts

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/decklab/internal/sim"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// RenderBarChart creates an interactive bar chart HTML file.
func RenderBarChart(data []DataPoint, seriesName string, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
	}

	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(seriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderLineChart creates an interactive line chart HTML file.
func RenderLineChart(data []DataPoint, seriesName string, config ChartConfig, outputPath string) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
	}

	yData := make([]opts.LineData, len(data))
	for i, point := range data {
		yData[i] = opts.LineData{Value: point.Value}
	}

	line.SetXAxis(xLabels).
		AddSeries(seriesName, yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderCurveChart renders a deck's mana curve distribution as a bar chart.
func RenderCurveChart(curve *sim.CurveStats, deckName, outputPath string) error {
	cmcs := make([]int, 0, len(curve.Distribution))
	for cmc := range curve.Distribution {
		cmcs = append(cmcs, cmc)
	}
	sort.Ints(cmcs)

	data := make([]DataPoint, 0, len(cmcs))
	for _, cmc := range cmcs {
		data = append(data, DataPoint{
			Label: fmt.Sprintf("%d", cmc),
			Value: float64(curve.Distribution[cmc]),
		})
	}

	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("Mana Curve — %s", deckName)
	config.Subtitle = fmt.Sprintf("%d spells, avg CMC %.2f", curve.Spells, curve.AvgCMC)

	return RenderBarChart(data, "Spells", config, outputPath)
}

// RenderLandDistribution renders the opening hand land count distribution.
func RenderLandDistribution(analysis *sim.OpeningHandAnalysis, deckName, outputPath string) error {
	counts := make([]int, 0, len(analysis.LandDistribution))
	for lands := range analysis.LandDistribution {
		counts = append(counts, lands)
	}
	sort.Ints(counts)

	data := make([]DataPoint, 0, len(counts))
	for _, lands := range counts {
		data = append(data, DataPoint{
			Label: fmt.Sprintf("%d lands", lands),
			Value: float64(analysis.LandDistribution[lands]),
		})
	}

	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("Opening Hand Lands — %s", deckName)
	config.Subtitle = fmt.Sprintf("%d hands, %.1f%% keepable", analysis.Iterations, analysis.KeepRate*100)

	return RenderBarChart(data, "Hands", config, outputPath)
}

// RenderTurnStats renders average spells cast per turn across goldfish games.
func RenderTurnStats(analysis *sim.GoldfishAnalysis, deckName, outputPath string) error {
	data := make([]DataPoint, 0, len(analysis.TurnStats))
	for i, turn := range analysis.TurnStats {
		data = append(data, DataPoint{
			Label: fmt.Sprintf("Turn %d", i+1),
			Value: turn.AvgSpellsCast,
		})
	}

	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("Goldfish Performance — %s", deckName)
	config.Subtitle = fmt.Sprintf("%d games, %.1f spells per game", analysis.Iterations, analysis.AvgSpellsCast)

	return RenderLineChart(data, "Avg Spells Cast", config, outputPath)
}
