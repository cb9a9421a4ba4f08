package chunking

import (
	"strings"
	"unicode"
)

// shouldSplitByMethod reports whether content should be split along member
// boundaries instead of by size. It requires the declared language to be Java,
// a recognizable type declaration, and at least two member-like signatures.
// Members without an access modifier, constructors, and generic signatures
// are not detected; such files fall through to size-based splitting.
func shouldSplitByMethod(content, language string) bool {
	if strings.ToLower(language) != "java" {
		return false
	}
	if findDeclarationStart(content) == -1 {
		return false
	}
	return len(memberProbeRe.FindAllStringIndex(content, -1)) >= 2
}

// splitByMethod splits a Java source file into a header fragment (imports,
// type declaration, fields) followed by one fragment per method. Comments and
// blank lines between methods stay attached to the method they precede. When
// no declaration or no member is found, the whole content is returned as the
// only fragment.
func splitByMethod(content string) []string {
	declStart := findDeclarationStart(content)
	if declStart == -1 {
		return []string{content}
	}

	firstMember := findFirstMemberStart(content, declStart)
	if firstMember == -1 {
		return []string{content}
	}

	fragments := []string{trimTrailingSpace(content[:firstMember])}

	for _, method := range extractMethods(content[firstMember:]) {
		if strings.TrimSpace(method) != "" {
			fragments = append(fragments, method)
		}
	}

	if len(fragments) > 1 {
		return fragments
	}
	return []string{content}
}

// extractMethods walks content (starting at the first member signature) and
// cuts one fragment per method using brace matching to find each body's end.
// Each fragment starts where the previous one ended, so interleaved comments
// are carried with the method that follows them. A body whose closing brace
// is never found absorbs the rest of the content.
func extractMethods(content string) []string {
	var methods []string
	pos := 0
	lastEnd := 0

	for pos < len(content) {
		loc := memberRe.FindStringIndex(content[pos:])
		if loc == nil {
			break
		}

		braceStart := pos + loc[1] - 1 // signature match ends on '{'

		bodyEnd := findMatchingBrace(content, braceStart)
		if bodyEnd == -1 {
			rest := trimTrailingSpace(content[lastEnd:])
			if strings.TrimSpace(rest) != "" {
				methods = append(methods, rest)
			}
			break
		}

		method := trimTrailingSpace(content[lastEnd : bodyEnd+1])
		if strings.TrimSpace(method) != "" {
			methods = append(methods, method)
		}

		lastEnd = bodyEnd + 1
		pos = bodyEnd + 1
	}

	return methods
}

func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
