package chunking

import "strings"

// languageSeparators maps a declared language to the separator hierarchy the
// recursive splitter should try, most structural first. Splitting on a
// declaration keyword keeps whole definitions together before the splitter
// degrades to blank lines, lines, words, and finally single characters.
var languageSeparators = map[string][]string{
	"python": {"\nclass ", "\ndef ", "\n\tdef ", "\n\n", "\n", " ", ""},
	"java": {
		"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\nstatic ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"javascript": {
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ", "\nclass ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ", "\ndefault ",
		"\n\n", "\n", " ", "",
	},
	"typescript": {
		"\nenum ", "\ninterface ", "\nnamespace ", "\ntype ", "\nclass ",
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ", "\ndefault ",
		"\n\n", "\n", " ", "",
	},
	"go": {
		"\nfunc ", "\nvar ", "\nconst ", "\ntype ",
		"\nif ", "\nfor ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"cpp": {
		"\nclass ", "\nvoid ", "\nint ", "\nfloat ", "\ndouble ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"c": {
		"\nclass ", "\nvoid ", "\nint ", "\nfloat ", "\ndouble ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"c_sharp": {
		"\ninterface ", "\nenum ", "\nimplements ", "\ndelegate ", "\nevent ",
		"\nclass ", "\nabstract ", "\npublic ", "\nprotected ", "\nprivate ", "\nstatic ",
		"\nreturn ", "\nif ", "\ncontinue ", "\nfor ", "\nforeach ", "\nwhile ",
		"\nswitch ", "\nbreak ", "\ncase ", "\nelse ",
		"\ntry ", "\nthrow ", "\nfinally ", "\ncatch ",
		"\n\n", "\n", " ", "",
	},
	"kotlin": {
		"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\ninternal ",
		"\ncompanion ", "\nfun ", "\nval ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nwhen ", "\ncase ", "\nelse ",
		"\n\n", "\n", " ", "",
	},
	"php": {
		"\nfunction ", "\nclass ",
		"\nif ", "\nforeach ", "\nwhile ", "\ndo ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"ruby": {
		"\ndef ", "\nclass ",
		"\nif ", "\nunless ", "\nwhile ", "\nfor ", "\ndo ", "\nbegin ", "\nrescue ",
		"\n\n", "\n", " ", "",
	},
	"rust": {
		"\nfn ", "\nconst ", "\nlet ",
		"\nif ", "\nwhile ", "\nfor ", "\nloop ", "\nmatch ",
		"\n\n", "\n", " ", "",
	},
	"scala": {
		"\nclass ", "\nobject ", "\ndef ", "\nval ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nmatch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"swift": {
		"\nfunc ", "\nclass ", "\nstruct ", "\nenum ",
		"\nif ", "\nfor ", "\nwhile ", "\ndo ", "\nswitch ", "\ncase ",
		"\n\n", "\n", " ", "",
	},
	"markdown": {
		"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
		"\n```\n", "\n\n***\n", "\n\n---\n", "\n\n___\n",
		"\n\n", "\n", " ", "",
	},
	"rst": {
		"\n===\n", "\n---\n", "\n***\n", "\n.. ",
		"\n\n", "\n", " ", "",
	},
	"lua": {
		"\nlocal ", "\nfunction ",
		"\nif ", "\nfor ", "\nwhile ", "\nrepeat ",
		"\n\n", "\n", " ", "",
	},
	"perl": {
		"\nsub ",
		"\nif ", "\nforeach ", "\nwhile ", "\ndo ", "\nuntil ", "\nunless ",
		"\n\n", "\n", " ", "",
	},
	"haskell": {
		"\nmain :: ", "\nmain = ", "\nlet ", "\nin ", "\ndo ", "\nwhere ",
		"\n:: ", "\n= ", "\ndata ", "\nnewtype ", "\ntype ",
		"\nmodule ", "\nimport ", "\nclass ", "\ninstance ",
		"\ncase ", "\n| ", "\n= {", "\n, ",
		"\n\n", "\n", " ", "",
	},
	"elixir": {
		"\ndef ", "\ndefp ", "\ndefmodule ", "\ndefprotocol ", "\ndefmacro ", "\ndefmacrop ",
		"\nif ", "\nunless ", "\nwhile ", "\ncase ", "\ncond ",
		"\n\n", "\n", " ", "",
	},
	"proto": {
		"\nmessage ", "\nservice ", "\nenum ", "\noption ", "\nimport ", "\nsyntax ",
		"\n\n", "\n", " ", "",
	},
	"sol": {
		"\npragma ", "\nusing ", "\ncontract ", "\ninterface ", "\nlibrary ",
		"\nconstructor ", "\ntype ", "\nfunction ", "\nevent ", "\nmodifier ",
		"\nerror ", "\nstruct ", "\nenum ",
		"\nif ", "\nfor ", "\nwhile ", "\ndo while ", "\nassembly ",
		"\n\n", "\n", " ", "",
	},
	"cobol": {
		"\nIDENTIFICATION DIVISION.", "\nENVIRONMENT DIVISION.", "\nDATA DIVISION.",
		"\nPROCEDURE DIVISION.", "\nWORKING-STORAGE SECTION.", "\nLINKAGE SECTION.",
		"\nFILE SECTION.", "\nINPUT-OUTPUT SECTION.",
		"\nOPEN ", "\nCLOSE ", "\nREAD ", "\nWRITE ",
		"\nIF ", "\nELSE ", "\nMOVE ", "\nPERFORM ", "\nUNTIL ", "\nVARYING ",
		"\nACCEPT ", "\nDISPLAY ", "\nSTOP RUN.",
		"\n", " ", "",
	},
	"latex": {
		"\n\\chapter{", "\n\\section{", "\n\\subsection{", "\n\\subsubsection{",
		"\n\\begin{enumerate}", "\n\\begin{itemize}", "\n\\begin{description}",
		"\n\\begin{list}", "\n\\begin{quote}", "\n\\begin{quotation}",
		"\n\\begin{verse}", "\n\\begin{verbatim}", "\n\\begin{align}",
		"$$", "$", " ", "",
	},
	"html": {
		"<body", "<div", "<p", "<br", "<li",
		"<h1", "<h2", "<h3", "<h4", "<h5", "<h6",
		"<span", "<table", "<tr", "<td", "<th", "<ul", "<ol",
		"<header", "<footer", "<nav", "<head", "<style", "<script",
		"<meta", "<title", "",
	},
}

// separatorsForLanguage returns the separator hierarchy for a declared
// language, matched case-insensitively. ok is false when the language has no
// dedicated hierarchy and the splitter's defaults should be used.
func separatorsForLanguage(language string) (seps []string, ok bool) {
	seps, ok = languageSeparators[strings.ToLower(language)]
	return seps, ok
}

// SupportedSplitterLanguages lists the languages with a dedicated separator
// hierarchy, in no particular order.
func SupportedSplitterLanguages() []string {
	langs := make([]string, 0, len(languageSeparators))
	for lang := range languageSeparators {
		langs = append(langs, lang)
	}
	return langs
}
