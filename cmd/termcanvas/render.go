package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"termcanvas/internal/config"
	"termcanvas/internal/console"
	"termcanvas/internal/events"
	"termcanvas/internal/layout"
	"termcanvas/internal/surface"
)

// maxTranscriptLine 限制 JSONL 单行长度。
const maxTranscriptLine = 4 << 20

func renderMain(root rootArgs, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var (
		cfgPath   string
		inPath    string
		outPath   string
		top       float64
		overrides stringSlice
	)
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.termcanvas/config.toml)")
	fs.StringVar(&inPath, "in", "-", "Transcript in JSONL, one entry per line (- for stdin)")
	fs.StringVar(&outPath, "out", "termcanvas.png", "PNG output path (- for stdout)")
	fs.Float64Var(&top, "top", -1, "Scroll offset in host units; negative keeps the tail view")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}
	cfg := loadConfig(cfgPath, root, overrides)

	in := io.Reader(os.Stdin)
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			log.Fatalf("open transcript: %v", err)
		}
		defer f.Close()
		in = f
	}

	var buf bytes.Buffer
	stats, err := renderTranscript(cfg, in, &buf, top)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if outPath == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
	} else {
		err = os.WriteFile(outPath, buf.Bytes(), 0o644)
	}
	if err != nil {
		log.Fatalf("write png: %v", err)
	}
	log.Infof("rendered %d entries (%d lines) to %s", stats.Entries, stats.Lines, outPath)
}

type renderStats struct {
	Entries int
	Lines   int
	Window  int
}

// renderTranscript replays a JSONL transcript into a raster widget and writes
// the final frame as PNG. top < 0 keeps the tail view.
func renderTranscript(cfg config.Config, in io.Reader, out io.Writer, top float64) (renderStats, error) {
	var stats renderStats
	theme, err := cfg.Theme()
	if err != nil {
		return stats, err
	}
	metrics := layout.Compute(cfg.Layout())
	face, err := surface.LoadFace(cfg.FontFamily, cfg.FontSize*metrics.Scale)
	if err != nil {
		return stats, err
	}
	raster := surface.NewRaster(int(math.Ceil(metrics.Surface.W)), int(math.Ceil(metrics.Surface.H)), face)

	c, err := console.New(console.Options{
		Layout:        cfg.Layout(),
		Theme:         theme,
		Title:         cfg.Title,
		Prompt:        cfg.Prompt,
		Surface:       raster,
		Notifier:      events.WithLogging(nil, nil),
		DisableBlink:  true,
	})
	if err != nil {
		return stats, err
	}
	defer c.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTranscriptLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		entry, err := console.ParseEntry(line)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := c.Append(entry); err != nil {
			return stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stats.Entries++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read transcript: %w", err)
	}
	if top >= 0 {
		c.ScrollTo(top)
	}
	stats.Lines = c.Len()
	stats.Window = c.Window().Len()

	if err := raster.WritePNG(out); err != nil {
		return stats, fmt.Errorf("encode png: %w", err)
	}
	return stats, nil
}
