package views

import (
	"fmt"
	"html/template"
	"regexp"
	"time"

	"github.com/goodsign/monday"
)

const longDatePT = "2 de January de 2006"

// FormatDate renders t the way pt-BR long dates read: "15 de janeiro de 2025".
// The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return monday.Format(t, longDatePT, monday.LocalePtBR)
}

// FormatDateISO is the machine-readable form used in <time> and JSON-LD.
func FormatDateISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ReadingTimeLabel returns "7 min de leitura", or "" when unknown.
func ReadingTimeLabel(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min de leitura", *minutes)
}

// CountLabel returns "1 artigo encontrado" or "N artigos encontrados".
func CountLabel(n int) string {
	if n == 1 {
		return "1 artigo encontrado"
	}
	return fmt.Sprintf("%d artigos encontrados", n)
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const defaultPillColor = "#2563EB"

// SafeColor returns color when it is a #rgb or #rrggbb hex color, else
// fallback. Category colors come from the CMS and end up in style attributes.
func SafeColor(color, fallback string) string {
	if hexColor.MatchString(color) {
		return color
	}
	return fallback
}

// PillStyle colors a category pill: the category color as text over the same
// color at low alpha. Anything that is not a hex color falls back to blue.
func PillStyle(color string) template.CSS {
	color = SafeColor(color, defaultPillColor)
	bg := color + "20"
	if len(color) == 4 {
		bg = color + "2"
	}
	return template.CSS("background-color: " + bg + "; color: " + color + ";")
}
