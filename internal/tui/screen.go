package tui

import (
	"strings"
)

// ANSI escape codes
const (
	escClear      = "\x1b[2J"
	escHome       = "\x1b[H"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
	escBold       = "\x1b[1m"
	escDim        = "\x1b[2m"
	escReset      = "\x1b[0m"
	escReverse    = "\x1b[7m"
	escGreen      = "\x1b[32m"
)

// frame renders engine text as a full raw-mode screen. Raw mode disables
// output post-processing, so lines end in CRLF.
func frame(text string, width, height int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if height > 0 && len(lines) > height {
		lines = scrollToCursor(lines, height)
	}

	var sb strings.Builder
	sb.WriteString(escHideCursor)
	sb.WriteString(escHome)
	sb.WriteString(escClear)
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(decorate(i, line, width))
	}
	return sb.String()
}

// headerLines is the opacity line plus the help hint above the window list.
const headerLines = 2

// scrollToCursor keeps the header and fits the window list into height
// rows, scrolled just far enough that the cursor row stays visible.
func scrollToCursor(lines []string, height int) []string {
	if height <= headerLines {
		return lines[:height]
	}
	header, body := lines[:headerLines], lines[headerLines:]
	rows := height - headerLines
	start := listOffset(cursorRow(body), rows, 0)
	if start+rows > len(body) {
		start = len(body) - rows
	}

	out := make([]string, 0, height)
	out = append(out, header...)
	return append(out, body[start:start+rows]...)
}

// cursorRow returns the index of the row marked as the cursor, or -1.
func cursorRow(rows []string) int {
	for i, row := range rows {
		if strings.HasSuffix(row, " <") {
			return i
		}
	}
	return -1
}

// listOffset moves offset the least distance that brings cursor into a
// view of rows lines.
func listOffset(cursor, rows, offset int) int {
	switch {
	case cursor < 0:
		return offset
	case cursor < offset:
		return cursor
	case cursor >= offset+rows:
		return cursor - rows + 1
	}
	return offset
}

// decorate classifies the full line before truncation can cut off the
// cursor marker.
func decorate(i int, line string, width int) string {
	shown := truncateANSI(line, width)
	switch {
	case i == 0:
		return escBold + shown + escReset
	case i == 1:
		return escDim + shown + escReset
	case strings.HasSuffix(line, " <"):
		return escReverse + shown + escReset
	case strings.HasPrefix(line, "> "):
		return escGreen + shown + escReset
	default:
		return shown
	}
}

// visibleLength returns the visible length of a string, ignoring ANSI codes.
func visibleLength(s string) int {
	inEscape := false
	length := 0
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		length++
	}
	return length
}

func truncateANSI(text string, width int) string {
	if width < 1 {
		return ""
	}
	if visibleLength(text) <= width {
		return text
	}

	var sb strings.Builder
	inEscape := false
	visible := 0
	for _, r := range text {
		if r == '\x1b' {
			inEscape = true
			sb.WriteRune(r)
			continue
		}
		if inEscape {
			sb.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}

		if visible >= width-1 {
			break
		}
		sb.WriteRune(r)
		visible++
	}

	sb.WriteString("…")
	sb.WriteString(escReset)
	return sb.String()
}
