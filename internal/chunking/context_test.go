package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractContext_Python(t *testing.T) {
	text := "class Parser:\n    pass\n\ndef parse(data):\n    return data\n"
	class, fn := extractContext(text, "python")
	assert.Equal(t, "Parser", class)
	assert.Equal(t, "parse", fn)
}

func TestExtractContext_PythonAsyncDef(t *testing.T) {
	text := "async def fetch(url):\n    ...\n"
	class, fn := extractContext(text, "python")
	assert.Empty(t, class)
	assert.Equal(t, "fetch", fn)
}

func TestExtractContext_PythonIndentedDefNotDetected(t *testing.T) {
	// Only top-of-line declarations count; a method inside a class body
	// without its class line yields nothing.
	text := "    def helper(self):\n        pass\n"
	class, fn := extractContext(text, "python")
	assert.Empty(t, class)
	assert.Empty(t, fn)
}

func TestExtractContext_TypeScriptExported(t *testing.T) {
	text := "export class Widget {\n}\n\nexport async function render(w: Widget) {\n}\n"
	class, fn := extractContext(text, "typescript")
	assert.Equal(t, "Widget", class)
	assert.Equal(t, "render", fn)
}

func TestExtractContext_JavaClassAndMethod(t *testing.T) {
	text := "public class Service {\n    public String getName() {\n        return name;\n    }\n}\n"
	class, fn := extractContext(text, "java")
	assert.Equal(t, "Service", class)
	assert.Equal(t, "getName", fn)
}

func TestExtractContext_JavaKeywordNotReportedAsFunction(t *testing.T) {
	// A fragment cut mid-statement can make the signature pattern capture a
	// control-flow keyword; it must be discarded.
	text := "private\nif (x) {\n    doWork();\n}\n"
	class, fn := extractContext(text, "java")
	assert.Empty(t, class)
	assert.Empty(t, fn)
}

func TestExtractContext_KotlinUsesJavaPatterns(t *testing.T) {
	text := "public class Session {\n    private fun start() {\n    }\n}\n"
	class, _ := extractContext(text, "kotlin")
	assert.Equal(t, "Session", class)
}

func TestExtractContext_GoFunction(t *testing.T) {
	class, fn := extractContext("func main() {\n}\n", "go")
	assert.Empty(t, class)
	assert.Equal(t, "main", fn)
}

func TestExtractContext_GoMethodReceiver(t *testing.T) {
	_, fn := extractContext("func (s *Server) Handle(w io.Writer) error {\n}\n", "go")
	assert.Equal(t, "Handle", fn)
}

func TestExtractContext_Rust(t *testing.T) {
	text := "pub struct Point {\n    x: f64,\n}\n\npub fn origin() -> Point {\n}\n"
	class, fn := extractContext(text, "rust")
	assert.Equal(t, "Point", class)
	assert.Equal(t, "origin", fn)
}

func TestExtractContext_C(t *testing.T) {
	text := "struct node {\n    int value;\n};\n\nstatic int get_value(struct node *n) {\n    return n->value;\n}\n"
	class, fn := extractContext(text, "c")
	assert.Equal(t, "node", class)
	assert.Equal(t, "get_value", fn)
}

func TestExtractContext_UnknownLanguage(t *testing.T) {
	class, fn := extractContext("class Thing\ndef run\n", "ruby")
	assert.Empty(t, class)
	assert.Empty(t, fn)
}

func TestExtractContext_FirstMatchWins(t *testing.T) {
	text := "def first():\n    pass\n\ndef second():\n    pass\n"
	_, fn := extractContext(text, "python")
	assert.Equal(t, "first", fn)
}
