package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/graphwire/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// renderTree prints a generic value as an indented tree.
func renderTree(title string, g any) string {
	var b strings.Builder
	b.WriteString(messageStyle.Render(title))
	b.WriteByte('\n')
	renderNode(&b, g, 1)
	return b.String()
}

func renderNode(b *strings.Builder, g any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := g.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			renderEntry(b, indent, keyStyle.Render(k), v[k], depth)
		}
	case []any:
		for i, e := range v {
			renderEntry(b, indent, keyStyle.Render("["+strconv.Itoa(i)+"]"), e, depth)
		}
	}
}

func renderEntry(b *strings.Builder, indent, key string, v any, depth int) {
	b.WriteString(indent)
	b.WriteString(key)
	b.WriteByte(':')
	switch c := v.(type) {
	case map[string]any:
		if len(c) == 0 {
			b.WriteString(" {}\n")
			return
		}
		b.WriteByte('\n')
		renderNode(b, c, depth+1)
	case []any:
		if len(c) == 0 {
			b.WriteString(" []\n")
			return
		}
		b.WriteByte('\n')
		renderNode(b, c, depth+1)
	default:
		b.WriteByte(' ')
		b.WriteString(scalar(v))
		b.WriteByte('\n')
	}
}

func scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return tagStyle.Render("null")
	case string:
		if s == schema.Cycle {
			return cycleStyle.Render(s)
		}
		return valueStyle.Render(strconv.Quote(s))
	case []byte:
		return valueStyle.Render(fmt.Sprintf("0x%x", s))
	default:
		return valueStyle.Render(fmt.Sprint(s))
	}
}
