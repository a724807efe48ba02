package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#00D26A")
	colorWarning = lipgloss.Color("#FFB800")
	colorAddress = lipgloss.Color("#00B4D8")
	colorValue   = lipgloss.Color("#FFFFFF")
	colorMeta    = lipgloss.Color("#555555")
	colorBorder  = lipgloss.Color("#1E3A5F")
	colorTitle   = lipgloss.Color("#9B5DE5")
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleAddress = lipgloss.NewStyle().Foreground(colorAddress)
	styleValue   = lipgloss.NewStyle().Foreground(colorValue).Bold(true)
	styleMeta    = lipgloss.NewStyle().Foreground(colorMeta)
	styleTitle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true).MarginBottom(1)
	styleHeader  = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)

	styleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

func success(msg string) string { return styleSuccess.Render("✓ " + msg) }
func warn(msg string) string    { return styleWarning.Render("⚠ " + msg) }
func addr(a string) string      { return styleAddress.Render(a) }
func meta(m string) string      { return styleMeta.Render(m) }

// sats formats a satoshi amount with its BCH equivalent.
func sats(n uint64) string {
	return fmt.Sprintf("%d sat (%d.%08d BCH)", n, n/100_000_000, n%100_000_000)
}

// keyValueBlock renders labeled pairs inside a bordered box.
func keyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(styleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := styleMeta.Render(fmt.Sprintf("%-14s", p[0]+":"))
		sb.WriteString("  " + key + " " + styleValue.Render(p[1]) + "\n")
	}
	return styleBorder.Render(strings.TrimRight(sb.String(), "\n"))
}

// table renders rows under headers with columns padded to the widest cell.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i := range headers {
			if i < len(r) && len(r[i]) > widths[i] {
				widths[i] = len(r[i])
			}
		}
	}
	pad := func(s string, w int) string { return s + strings.Repeat(" ", w-len(s)) }

	var sb strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = styleHeader.Render(pad(h, widths[i]))
	}
	sb.WriteString(strings.Join(cells, "  ") + "\n")
	for i := range headers {
		cells[i] = styleMeta.Render(strings.Repeat("-", widths[i]))
	}
	sb.WriteString(strings.Join(cells, "  ") + "\n")
	for _, r := range rows {
		for i := range headers {
			v := ""
			if i < len(r) {
				v = r[i]
			}
			cells[i] = pad(v, widths[i])
		}
		sb.WriteString(strings.Join(cells, "  ") + "\n")
	}
	return sb.String()
}
