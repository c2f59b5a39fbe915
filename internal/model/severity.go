package model

import "strings"

// SeverityTag is one of the recognized log levels or UNKNOWN.
type SeverityTag string

const (
	TagInfo     SeverityTag = "INFO"
	TagWarning  SeverityTag = "WARNING"
	TagError    SeverityTag = "ERROR"
	TagCritical SeverityTag = "CRITICAL"
	TagDebug    SeverityTag = "DEBUG"
	TagUnknown  SeverityTag = "UNKNOWN"
)

// KnownTags lists the recognized levels in display order.
var KnownTags = []SeverityTag{TagInfo, TagWarning, TagError, TagCritical, TagDebug}

// AllTags is KnownTags plus the UNKNOWN bucket.
var AllTags = append(append([]SeverityTag{}, KnownTags...), TagUnknown)

// TagOf maps a level name to its tag. Comparison is case-insensitive.
func TagOf(name string) SeverityTag {
	up := strings.ToUpper(strings.TrimSpace(name))
	for _, t := range KnownTags {
		if string(t) == up {
			return t
		}
	}
	return TagUnknown
}

// NormalizeLevel returns the uppercased name for known levels and the literal
// name otherwise, so unrecognized levels remain filterable by exact string.
func NormalizeLevel(name string) string {
	if t := TagOf(name); t != TagUnknown {
		return string(t)
	}
	return name
}

// ColorTag is a semantic color name. Presenters decide what it looks like.
type ColorTag string

const (
	ColorDefault ColorTag = "default"
	ColorNeutral ColorTag = "neutral"
	ColorGreen   ColorTag = "green"
	ColorWhite   ColorTag = "white"
	ColorOrange  ColorTag = "orange"
	ColorRed     ColorTag = "red"
	ColorMagenta ColorTag = "magenta"
	ColorSky     ColorTag = "sky"
	ColorBlue    ColorTag = "blue"
)

type colorPair struct{ fg, bg ColorTag }

var levelColors = map[SeverityTag]colorPair{
	TagInfo:     {ColorGreen, ColorNeutral},
	TagWarning:  {ColorWhite, ColorOrange},
	TagError:    {ColorWhite, ColorRed},
	TagCritical: {ColorWhite, ColorMagenta},
	TagDebug:    {ColorSky, ColorNeutral},
}

// Classify returns the foreground/background pair for a tag. Anything outside
// the known set gets the neutral default. Never used for filtering.
func Classify(tag SeverityTag) (fg, bg ColorTag) {
	if p, ok := levelColors[tag]; ok {
		return p.fg, p.bg
	}
	return ColorDefault, ColorNeutral
}

// StyleColors resolves the color pair of a segment style.
func StyleColors(s Style) (fg, bg ColorTag) {
	switch s {
	case StyleLabel:
		return ColorBlue, ColorNeutral
	case StylePlain:
		return ColorDefault, ColorNeutral
	}
	return Classify(SeverityTag(s))
}
