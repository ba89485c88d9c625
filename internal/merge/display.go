package merge

import (
	"io"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
)

// echo writes one hunk-stream line to the display, always newline-terminated.
func (e *Engine) echo(line string, header bool) {
	text := strings.TrimRight(line, "\r\n")
	if e.cfg.Color {
		if color := lineColor(text, header); color != "" {
			text = color + text + ansiReset
		}
	}
	io.WriteString(e.cfg.Display, text+"\n")
}

func lineColor(text string, header bool) string {
	switch {
	case header:
		return ansiCyan
	case strings.HasPrefix(text, "<"):
		return ansiRed
	case strings.HasPrefix(text, ">"):
		return ansiGreen
	}
	return ""
}
