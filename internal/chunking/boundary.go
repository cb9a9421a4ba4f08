package chunking

import "regexp"

// Line-anchored signature patterns for Java-style sources. The leading \s*
// may cross blank lines, so a match can begin on the line before the
// signature itself; callers only rely on the match start as a cut point.
var (
	// declarationRe matches a top-level type declaration: an optional access
	// modifier, an optional abstract/final/static modifier, then
	// class/interface/enum/record and a name.
	declarationRe = regexp.MustCompile(`(?m)^\s*(public\s+|private\s+|protected\s+)?(abstract\s+|final\s+|static\s+)?(class|interface|enum|record)\s+\w+`)

	// memberRe matches a full member signature through its opening brace:
	// access modifier, optional static/final/synchronized, a return type,
	// the member name, a parameter list, and an optional throws clause.
	memberRe = regexp.MustCompile(`(?m)^\s*(public|private|protected)\s+(?:static\s+)?(?:final\s+)?(?:synchronized\s+)?[\w<>\[\],\s]+\s+\w+\s*\([^)]*\)\s*(?:throws\s+[\w\s,]+)?\s*\{`)

	// memberProbeRe is a cheaper variant used only to count likely members
	// when deciding whether structural splitting applies. It stops at the
	// opening parenthesis and skips the final/synchronized modifiers, so it
	// over-matches relative to memberRe.
	memberProbeRe = regexp.MustCompile(`(?m)^\s*(public|private|protected)\s+(?:static\s+)?[\w<>\[\],\s]+\s+\w+\s*\(`)
)

// findDeclarationStart returns the index where the first type declaration
// begins, or -1 when the content declares no type.
func findDeclarationStart(content string) int {
	loc := declarationRe.FindStringIndex(content)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// findFirstMemberStart returns the index of the first member signature at or
// after from, or -1 when no member follows the declaration.
func findFirstMemberStart(content string, from int) int {
	loc := memberRe.FindStringIndex(content[from:])
	if loc == nil {
		return -1
	}
	return from + loc[0]
}
