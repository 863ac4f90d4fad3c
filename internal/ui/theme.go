package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Bullet, Delete                         string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed,
		Bullet: "•", Delete: "🗑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

// SetTheme selects a theme by name; unknown names fall back to classic.
// A non-empty deleteIcon replaces the theme's delete glyph.
func SetTheme(name, deleteIcon string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Bullet: "◆", Delete: "✗",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:   "mono",
			Bullet: "-", Delete: "x",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		current = classic()
	}
	if deleteIcon != "" {
		current.Delete = deleteIcon
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// DeleteGlyph is the delete control's label; a missing glyph degrades to
// "x" and never hides the control.
func (t Theme) DeleteGlyph() string {
	if strings.TrimSpace(t.Delete) == "" {
		return "x"
	}
	return t.Delete
}
