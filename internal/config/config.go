package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"termcanvas/internal/compose"
	"termcanvas/internal/layout"
	"termcanvas/internal/palette"

	"github.com/pelletier/go-toml/v2"
)

// Padding 为内容区内边距（宿主坐标）。
type Padding struct {
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
	Left   float64 `toml:"left"`
}

// Colors 为主题颜色，接受颜色名或 #rgb/#rrggbb。
type Colors struct {
	Background string   `toml:"background"`
	Font       string   `toml:"font"`
	Cursor     string   `toml:"cursor"`
	Title      string   `toml:"title"`
	Indicators []string `toml:"indicators"`
}

// Config is the only persisted config file schema.
type Config struct {
	Title           string  `toml:"title"`
	Prompt          string  `toml:"prompt"`
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	Scale           float64 `toml:"scale"`
	FontSize        float64 `toml:"font_size"`
	FontFamily      string  `toml:"font_family"`
	LineGap         float64 `toml:"line_gap"`
	HeaderHeight    float64 `toml:"header_height"`
	FooterHeight    float64 `toml:"footer_height"`
	Padding         Padding `toml:"padding"`
	Colors          Colors  `toml:"colors"`
	BlinkIntervalMs int     `toml:"blink_interval_ms"`
	LogLevel        string  `toml:"log_level"`
	Shell           string  `toml:"shell"`
	Source          string  `toml:"-"`
}

func Default() Config {
	return Config{
		Title:        "termcanvas",
		Prompt:       "$ ",
		Width:        640,
		Height:       400,
		Scale:        1,
		FontSize:     13,
		FontFamily:   "basic",
		LineGap:      3,
		HeaderHeight: 24,
		FooterHeight: 8,
		Padding:      Padding{Top: 8, Right: 10, Bottom: 8, Left: 10},
		Colors: Colors{
			Background: "#1e1e1e",
			Font:       "#d4d4d4",
			Cursor:     "#aeafad",
			Title:      "#9a9a9a",
			Indicators: []string{"#ff5f56", "#ffbd2e", "#27c93f"},
		},
		BlinkIntervalMs: 500,
		Shell:           "bash",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".termcanvas", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env, ok := os.LookupEnv("TERMCANVAS_PROMPT"); ok && env != "" {
		cfg.Prompt = env
	}
	if env := strings.TrimSpace(os.Getenv("TERMCANVAS_FONT_FAMILY")); env != "" {
		cfg.FontFamily = env
	}
}

// Layout 转换为布局参数。
func (c Config) Layout() layout.Config {
	return layout.Config{
		Width:        c.Width,
		Height:       c.Height,
		Scale:        c.Scale,
		FontSize:     c.FontSize,
		LineGap:      c.LineGap,
		HeaderHeight: c.HeaderHeight,
		FooterHeight: c.FooterHeight,
		Padding: layout.Padding{
			Top:    c.Padding.Top,
			Right:  c.Padding.Right,
			Bottom: c.Padding.Bottom,
			Left:   c.Padding.Left,
		},
	}
}

// Theme 解析颜色；任一颜色无效时返回错误。
func (c Config) Theme() (compose.Theme, error) {
	var (
		theme compose.Theme
		err   error
	)
	parse := func(field, value string) color.Color {
		if err != nil {
			return nil
		}
		col, perr := palette.Parse(value)
		if perr != nil {
			err = fmt.Errorf("colors.%s: %w", field, perr)
			return nil
		}
		return col
	}
	theme.Background = parse("background", c.Colors.Background)
	theme.Font = parse("font", c.Colors.Font)
	theme.Cursor = parse("cursor", c.Colors.Cursor)
	theme.Title = parse("title", c.Colors.Title)
	for _, v := range c.Colors.Indicators {
		theme.Indicators = append(theme.Indicators, parse("indicators", v))
	}
	if err != nil {
		return compose.Theme{}, err
	}
	return theme, nil
}

// BlinkInterval 返回光标闪烁周期。
func (c Config) BlinkInterval() time.Duration {
	if c.BlinkIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.BlinkIntervalMs) * time.Millisecond
}

// GridPreset 返回适用于字符网格表面的配置：1 单元 = 1 坐标单位，
// 1 行标题栏，无页脚，左右各留 1 列。
func (c Config) GridPreset(cols, rows int) Config {
	out := c
	out.Width = float64(cols)
	out.Height = float64(rows)
	out.Scale = 1
	out.FontSize = 1
	out.LineGap = 0
	out.HeaderHeight = 1
	out.FooterHeight = 0
	out.Padding = Padding{Left: 1, Right: 1}
	return out
}
