package views

import (
	"html/template"
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "15 de janeiro de 2025"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "1 de março de 2024"},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "31 de dezembro de 2023"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadingTimeLabel(t *testing.T) {
	seven, zero := 7, 0
	tests := []struct {
		in   *int
		want string
	}{
		{&seven, "7 min de leitura"},
		{&zero, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ReadingTimeLabel(tt.in); got != tt.want {
			t.Errorf("ReadingTimeLabel = %q, want %q", got, tt.want)
		}
	}
}

func TestCountLabel(t *testing.T) {
	if got := CountLabel(1); got != "1 artigo encontrado" {
		t.Errorf("CountLabel(1) = %q", got)
	}
	if got := CountLabel(4); got != "4 artigos encontrados" {
		t.Errorf("CountLabel(4) = %q", got)
	}
}

func TestPillStyle(t *testing.T) {
	tests := []struct {
		color string
		want  template.CSS
	}{
		{"#10B981", "background-color: #10B98120; color: #10B981;"},
		{"#abc", "background-color: #abc2; color: #abc;"},
		{"red; background:url(x)", "background-color: #2563EB20; color: #2563EB;"},
		{"", "background-color: #2563EB20; color: #2563EB;"},
	}
	for _, tt := range tests {
		if got := PillStyle(tt.color); got != tt.want {
			t.Errorf("PillStyle(%q) = %q, want %q", tt.color, got, tt.want)
		}
	}
}

func TestSafeColor(t *testing.T) {
	tests := []struct {
		color, want string
	}{
		{"#10B981", "#10B981"},
		{"#abc", "#abc"},
		{"", "#000"},
		{"red", "#000"},
		{"#10B98", "#000"},
		{"#fff;background:url(x)", "#000"},
	}
	for _, tt := range tests {
		if got := SafeColor(tt.color, "#000"); got != tt.want {
			t.Errorf("SafeColor(%q) = %q, want %q", tt.color, got, tt.want)
		}
	}
}
