package babble

import "strings"

// Printable replaces control characters with a middle dot, keeping newlines.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r < 0x20, r >= 0x7f && r < 0xa0:
			return '·'
		}
		return r
	}, s)
}

// TailLines wraps the printable form of s at width runes and returns at most the last n lines.
func TailLines(s string, width, n int) []string {
	var lines []string
	for _, para := range strings.Split(Printable(s), "\n") {
		runes := []rune(para)
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
