package completion

import (
	"strconv"
	"strings"
)

// Backend insertion text embeds editor placeholders as <#...#>, with
// the long form <#T##display##Type#> carrying display and type hints.

// rewritePlaceholders converts backend placeholder markup into the LSP
// snippet syntax (${n:display}) when snippets is true, or strips it to
// the bare display text otherwise. The second result reports whether
// the output still contains snippet constructs, which is what decides
// the insert-text format reported to the client.
func rewritePlaceholders(src string, snippets bool) (string, bool) {
	if !strings.Contains(src, "<#") {
		return src, false
	}

	var out strings.Builder
	isSnippet := false
	index := 1
	rest := src
	for {
		open := strings.Index(rest, "<#")
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open+2:]

		end := strings.Index(rest, "#>")
		if end < 0 {
			// unterminated marker, keep it verbatim
			out.WriteString("<#")
			out.WriteString(rest)
			break
		}
		display := placeholderDisplay(rest[:end])
		rest = rest[end+2:]

		if snippets {
			out.WriteString("${")
			out.WriteString(strconv.Itoa(index))
			out.WriteByte(':')
			out.WriteString(escapeSnippet(display))
			out.WriteByte('}')
			index++
			isSnippet = true
		} else {
			out.WriteString(display)
		}
	}
	return out.String(), isSnippet
}

// placeholderDisplay extracts the display text from a placeholder body.
// The long form is "T##display##Type"; the short form is the body
// itself.
func placeholderDisplay(body string) string {
	if !strings.Contains(body, "##") {
		return body
	}
	parts := strings.Split(body, "##")
	if strings.HasPrefix(body, "T##") && len(parts) > 1 {
		parts = parts[1:]
	}
	return parts[0]
}

// escapeSnippet protects characters that are meta in LSP snippets.
func escapeSnippet(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$', '}', '\\':
			out.WriteByte('\\')
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
