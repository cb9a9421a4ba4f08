package chunking

import "regexp"

// Declaration patterns used to pull a class or function name out of a chunk
// so it can be stored as filterable metadata. One pattern set per language
// family; the first match in the text wins.
var (
	pythonClassRe = regexp.MustCompile(`(?m)^class\s+(\w+)`)
	pythonFuncRe  = regexp.MustCompile(`(?m)^(?:async\s+)?def\s+(\w+)`)

	jsClassRe = regexp.MustCompile(`(?m)^(?:export\s+)?class\s+(\w+)`)
	jsFuncRe  = regexp.MustCompile(`(?m)^(?:export\s+)?(?:async\s+)?function\s+(\w+)`)

	javaClassRe = regexp.MustCompile(`(?m)^\s*(?:public\s+|private\s+|protected\s+)?(?:abstract\s+|final\s+|static\s+)?(?:class|interface|enum)\s+(\w+)`)
	javaFuncRe  = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)\s+(?:static\s+)?(?:final\s+)?(?:synchronized\s+)?(?:[\w<>\[\],\s]+\s+)?(\w+)\s*\(`)

	goFuncRe = regexp.MustCompile(`(?m)^func\s+(?:\(\w+\s+\*?\w+\)\s+)?(\w+)`)

	rustFuncRe   = regexp.MustCompile(`(?m)^(?:pub\s+)?fn\s+(\w+)`)
	rustStructRe = regexp.MustCompile(`(?m)^(?:pub\s+)?struct\s+(\w+)`)

	cClassRe = regexp.MustCompile(`(?m)^(?:class|struct)\s+(\w+)`)
	cFuncRe  = regexp.MustCompile(`(?m)^(?:\w+\s+)+(\w+)\s*\([^)]*\)\s*\{`)
)

// flowKeywords are control-flow words the loose Java-family signature pattern
// can capture when a chunk is cut mid-declaration. A captured name in this set
// is discarded rather than recorded as a function name.
var flowKeywords = map[string]bool{
	"return": true, "if": true, "else": true, "for": true,
	"while": true, "switch": true, "case": true, "try": true,
	"catch": true, "finally": true, "throw": true, "new": true,
}

// extractContext finds the first class and function names declared in text.
// Unknown languages yield no names; either return value may be empty.
func extractContext(text, language string) (className, functionName string) {
	switch language {
	case "python":
		className = firstGroup(pythonClassRe, text)
		functionName = firstGroup(pythonFuncRe, text)
	case "javascript", "typescript":
		className = firstGroup(jsClassRe, text)
		functionName = firstGroup(jsFuncRe, text)
	case "java", "kotlin", "c_sharp":
		className = firstGroup(javaClassRe, text)
		if name := firstGroup(javaFuncRe, text); name != "" && !flowKeywords[name] {
			functionName = name
		}
	case "go":
		functionName = firstGroup(goFuncRe, text)
	case "rust":
		className = firstGroup(rustStructRe, text)
		functionName = firstGroup(rustFuncRe, text)
	case "c", "cpp":
		className = firstGroup(cClassRe, text)
		functionName = firstGroup(cFuncRe, text)
	}
	return className, functionName
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
