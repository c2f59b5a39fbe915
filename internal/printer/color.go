package printer

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"kasalog/internal/model"
)

// ColorState manages global color output settings for the printer
type ColorState struct {
	enabled bool
}

var globalColorState = &ColorState{}

// InitColorState decides whether output is colored.
// Priority order (highest to lowest):
//  1. Explicit user setting (via CLI flag)
//  2. NO_COLOR environment variable
//  3. TTY detection
//  4. Disabled for unknown writers
func InitColorState(explicitSetting *bool, writer io.Writer) {
	if explicitSetting != nil {
		color.NoColor = !*explicitSetting
		globalColorState.enabled = *explicitSetting
		return
	}

	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		globalColorState.enabled = false
		return
	}

	if f, ok := writer.(*os.File); ok {
		globalColorState.enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		color.NoColor = !globalColorState.enabled
		return
	}

	color.NoColor = true
	globalColorState.enabled = false
}

func IsColorEnabled() bool {
	return globalColorState.enabled
}

var (
	fgAttrs = map[model.ColorTag]color.Attribute{
		model.ColorGreen: color.FgGreen,
		model.ColorWhite: color.FgHiWhite,
		model.ColorSky:   color.FgHiCyan,
		model.ColorBlue:  color.FgBlue,
	}
	bgAttrs = map[model.ColorTag]color.Attribute{
		model.ColorOrange:  color.BgYellow,
		model.ColorRed:     color.BgRed,
		model.ColorMagenta: color.BgMagenta,
	}
)

// styleColor maps a segment style to terminal attributes. Neutral and
// default tags add nothing.
func styleColor(s model.Style) *color.Color {
	fg, bg := model.StyleColors(s)
	var attrs []color.Attribute
	if a, ok := fgAttrs[fg]; ok {
		attrs = append(attrs, a)
	}
	if a, ok := bgAttrs[bg]; ok {
		attrs = append(attrs, a)
	}
	if s == model.StyleLabel {
		attrs = append(attrs, color.Bold)
	}
	c := color.New(attrs...)
	if globalColorState.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
