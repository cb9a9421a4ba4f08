package github

import (
	"strings"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// LanguageUnknown is returned by DetectLanguage for files outside the
// supported set.
const LanguageUnknown = "unknown"

// languageEntry ties a language identifier to the path suffixes and exact
// filenames that select it. Order matters: the first entry claiming a suffix
// wins, which is what keeps ".c"/".h" on c rather than cpp.
type languageEntry struct {
	name       string
	extensions []string
	filenames  []string
}

var languageTable = []languageEntry{
	{name: "bash", extensions: []string{".sh", ".bash", ".zsh"}},
	{name: "c", extensions: []string{".c", ".h"}},
	{name: "cpp", extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"}},
	{name: "c_sharp", extensions: []string{".cs", ".csx"}},
	{name: "css", extensions: []string{".css"}},
	{name: "go", extensions: []string{".go"}},
	{name: "html", extensions: []string{".html", ".htm"}},
	{name: "java", extensions: []string{".java"}},
	{name: "javascript", extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
	{name: "json", extensions: []string{".json"}},
	{name: "php", extensions: []string{".php", ".phtml"}},
	{name: "python", extensions: []string{".py", ".pyw"}},
	{name: "ruby", extensions: []string{".rb", ".rake", ".gemspec"}},
	{name: "rust", extensions: []string{".rs"}},
	{name: "typescript", extensions: []string{".ts", ".tsx"}},

	{name: "elixir", extensions: []string{".ex", ".exs"}},
	{name: "elm", extensions: []string{".elm"}},
	{name: "erlang", extensions: []string{".erl", ".hrl"}},
	{name: "fortran", extensions: []string{".f90", ".f95", ".f03"}},
	{name: "hack", extensions: []string{".hack", ".hhi"}},
	{name: "haskell", extensions: []string{".hs", ".lhs"}},
	{name: "hcl", extensions: []string{".hcl", ".tf"}},
	{name: "julia", extensions: []string{".jl"}},
	{name: "kotlin", extensions: []string{".kt", ".kts"}},
	{name: "lua", extensions: []string{".lua"}},
	{name: "make", extensions: []string{".mk", ".make"}, filenames: []string{"Makefile"}},
	{name: "markdown", extensions: []string{".md", ".markdown"}},
	{name: "ocaml", extensions: []string{".ml", ".mli"}},
	{name: "perl", extensions: []string{".pl", ".pm"}},
	{name: "ql", extensions: []string{".ql", ".qll"}},
	{name: "regex", extensions: []string{".regex"}},
	{name: "rst", extensions: []string{".rst"}},
	{name: "scala", extensions: []string{".scala", ".sc"}},
	{name: "sql", extensions: []string{".sql"}},
	{name: "toml", extensions: []string{".toml"}},
	{name: "yaml", extensions: []string{".yaml", ".yml"}},

	{name: "dockerfile", extensions: []string{".dockerfile"}, filenames: []string{"Dockerfile"}},
	{name: "elisp", extensions: []string{".el"}},
	{name: "objc", extensions: []string{".m", ".mm"}},
	{name: "swift", extensions: []string{".swift"}},
	{name: "vue", extensions: []string{".vue"}},
	{name: "svelte", extensions: []string{".svelte"}},
}

var (
	extensionLanguages = map[string]string{}
	filenameLanguages  = map[string]string{}
)

func init() {
	for _, entry := range languageTable {
		for _, ext := range entry.extensions {
			key := strings.ToLower(ext)
			if _, taken := extensionLanguages[key]; !taken {
				extensionLanguages[key] = entry.name
			}
		}
		for _, name := range entry.filenames {
			key := strings.ToLower(name)
			if _, taken := filenameLanguages[key]; !taken {
				filenameLanguages[key] = entry.name
			}
		}
	}
}

// DetectLanguage maps a repository path to its language identifier, matching
// the filename first (Makefile, Dockerfile) and then the extension, both
// case-insensitively. Unmatched paths return LanguageUnknown.
func DetectLanguage(path string) string {
	name := strings.ToLower(baseName(path))

	if lang, ok := filenameLanguages[name]; ok {
		return lang
	}
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		if lang, ok := extensionLanguages[name[dot:]]; ok {
			return lang
		}
	}
	return LanguageUnknown
}

// IsSupported reports whether a repository path should be indexed. Hidden
// files and directories (any path segment starting with a dot) are excluded,
// as is anything whose language is not in the supported set.
func IsSupported(path string) bool {
	if isHidden(path) {
		return false
	}
	return DetectLanguage(path) != LanguageUnknown
}

func isHidden(path string) bool {
	return strings.HasPrefix(path, ".") || strings.Contains(path, "/.")
}

// CleanArchivePath strips the synthetic top-level directory GitHub puts into
// archive downloads ("owner-repo-sha/src/main.go" becomes "src/main.go").
// Paths without a directory component collapse to "" and should be skipped.
func CleanArchivePath(archivePath string) string {
	slash := strings.IndexByte(archivePath, '/')
	if slash < 0 {
		return ""
	}
	return archivePath[slash+1:]
}

// FileCategory labels a file for the search index: "CODE" for any detected
// language, otherwise the lowercased extension with a leading dot. Extensionless
// paths fall back to the bare filename, so "LICENSE" becomes ".license".
func FileCategory(path, language string) string {
	if language != LanguageUnknown {
		return types.CategoryCode
	}

	var ext string
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		ext = path[dot+1:]
	} else {
		ext = baseName(path)
	}
	return "." + strings.ToLower(ext)
}

func baseName(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}
