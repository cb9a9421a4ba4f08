package chunking

// findMatchingBrace scans content from an opening brace at start and returns
// the index of the brace that closes it, or -1 when the body is unterminated.
//
// The scan tracks four exclusive contexts (string literal, character literal,
// line comment, block comment) so that braces inside them never change the
// nesting depth. Escape handling looks at the single preceding character only:
// a quote preceded by a backslash never toggles its context, even when that
// backslash is itself escaped.
func findMatchingBrace(content string, start int) int {
	if start >= len(content) || content[start] != '{' {
		return -1
	}

	var (
		inString  bool
		inChar    bool
		inComment bool // line comment, terminated by newline
		inBlock   bool // block comment, terminated by */
	)

	depth := 1
	pos := start + 1

	for pos < len(content) && depth > 0 {
		ch := content[pos]
		var prev byte
		if pos > 0 {
			prev = content[pos-1]
		}
		var next byte
		if pos+1 < len(content) {
			next = content[pos+1]
		}

		switch {
		case ch == '"' && prev != '\\' && !inChar && !inComment && !inBlock:
			inString = !inString
		case ch == '\'' && prev != '\\' && !inString && !inComment && !inBlock:
			inChar = !inChar
		case ch == '/' && next == '/' && !inString && !inChar && !inBlock:
			inComment = true
		case ch == '\n' && inComment:
			inComment = false
		case ch == '/' && next == '*' && !inString && !inChar:
			inBlock = true
		case ch == '*' && next == '/' && inBlock:
			inBlock = false
			pos++ // consume both characters of the terminator
		case !inString && !inChar && !inComment && !inBlock:
			if ch == '{' {
				depth++
			} else if ch == '}' {
				depth--
			}
		}

		pos++
	}

	if depth == 0 {
		return pos - 1
	}
	return -1
}
