package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and unparsable numbers are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "title":
			cfg.Title = val
		case "prompt":
			cfg.Prompt = parts[1]
		case "font_family":
			cfg.FontFamily = val
		case "log_level":
			cfg.LogLevel = val
		case "shell":
			cfg.Shell = val
		case "colors.background":
			cfg.Colors.Background = val
		case "colors.font":
			cfg.Colors.Font = val
		case "colors.cursor":
			cfg.Colors.Cursor = val
		case "colors.title":
			cfg.Colors.Title = val
		case "blink_interval_ms":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.BlinkIntervalMs = n
			}
		default:
			if f, ok := floatField(&cfg, key); ok {
				if n, err := strconv.ParseFloat(val, 64); err == nil {
					*f = n
				}
			}
		}
	}
	return cfg
}

func floatField(cfg *Config, key string) (*float64, bool) {
	switch key {
	case "width":
		return &cfg.Width, true
	case "height":
		return &cfg.Height, true
	case "scale":
		return &cfg.Scale, true
	case "font_size":
		return &cfg.FontSize, true
	case "line_gap":
		return &cfg.LineGap, true
	case "header_height":
		return &cfg.HeaderHeight, true
	case "footer_height":
		return &cfg.FooterHeight, true
	case "padding.top":
		return &cfg.Padding.Top, true
	case "padding.right":
		return &cfg.Padding.Right, true
	case "padding.bottom":
		return &cfg.Padding.Bottom, true
	case "padding.left":
		return &cfg.Padding.Left, true
	}
	return nil, false
}
