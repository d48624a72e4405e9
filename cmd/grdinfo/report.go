package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"sigs.k8s.io/yaml"

	"github.com/gogpu/grd"
	"github.com/gogpu/grd/internal/parallel"
)

type stopSummary struct {
	Location int     `json:"location"`
	Midpoint int     `json:"midpoint"`
	Kind     string  `json:"kind"`
	Color    string  `json:"color"`
	HSB      string  `json:"hsb"`
	Hex      string  `json:"hex"`
	Opacity  float64 `json:"opacity"`
}

type transparencySummary struct {
	Location int     `json:"location"`
	Midpoint int     `json:"midpoint"`
	Opacity  float64 `json:"opacity"`
}

type gradientSummary struct {
	Index        int                   `json:"index"`
	Name         string                `json:"name,omitempty"`
	Smoothness   float64               `json:"smoothness,omitempty"`
	Stops        []stopSummary         `json:"stops,omitempty"`
	Transparency []transparencySummary `json:"transparency,omitempty"`
	Error        string                `json:"error,omitempty"`
}

func summarize(r result) gradientSummary {
	s := gradientSummary{Index: r.index}
	if r.err != nil {
		s.Error = r.err.Error()
		return s
	}
	g := r.gradient
	s.Name = g.Name
	s.Smoothness = g.Smoothness
	for _, st := range g.Stops {
		s.Stops = append(s.Stops, stopSummary{
			Location: st.Location,
			Midpoint: st.Midpoint,
			Kind:     st.Kind.String(),
			Color:    st.Color.String(),
			HSB:      st.Color.HSB().String(),
			Hex:      st.Color.RGBA(st.Opacity / 100).Hex(),
			Opacity:  st.Opacity,
		})
	}
	for _, tr := range g.Transparency {
		s.Transparency = append(s.Transparency, transparencySummary(tr))
	}
	return s
}

func report(w io.Writer, format string, results []result) error {
	summaries := make([]gradientSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, summarize(r))
	}

	switch strings.ToLower(format) {
	case "text":
		return writeText(w, summaries)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "yaml":
		out, err := yaml.Marshal(summaries)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, summaries []gradientSummary) error {
	failed := 0
	for _, s := range summaries {
		if s.Error != "" {
			failed++
			if _, err := fmt.Fprintf(w, "%3d  error: %s\n", s.Index, s.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%3d  %s (%d stops)\n", s.Index, s.Name, len(s.Stops)); err != nil {
			return err
		}
		for _, st := range s.Stops {
			if _, err := fmt.Fprintf(w, "     %4d  %-4s %-24s %s  %5.1f%%\n",
				st.Location, st.Kind, st.Color, st.Hex, st.Opacity); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d gradients, %d errors\n", len(summaries)-failed, failed)
	return err
}

func writeSwatches(opts options, results []result) error {
	if err := os.MkdirAll(opts.swatches, 0o750); err != nil {
		return err
	}

	pool := parallel.NewWorkerPool(opts.jobs)
	defer pool.Close()

	return pool.Run(len(results), func(i int) error {
		r := results[i]
		if r.err != nil {
			return nil
		}
		img := grd.RenderSwatch(r.gradient, opts.width, opts.height)
		if opts.scale > 1 {
			img = grd.ScaleNearest(img, opts.scale)
		}
		name := fmt.Sprintf("%03d-%s.%s", r.index, fileSafe(r.gradient.Name), opts.ext)
		return grd.SaveImage(filepath.Join(opts.swatches, name), img)
	})
}

// fileSafe reduces a gradient name to characters usable in a file name.
func fileSafe(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	if s == "" {
		return "gradient"
	}
	return s
}
