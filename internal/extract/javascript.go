package extract

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"codescope/internal/model"
)

// JavaScriptExtractor builds the structural model for JavaScript and
// TypeScript files without a full grammar. Declarations are located by
// regex; bodies are bounded by a string- and comment-aware matching-brace
// scan; complexity is approximated by counting decision-point tokens.
// Results from the weaker parameter-count fallback are flagged via
// Function.ComplexityEstimated.
type JavaScriptExtractor struct {
	projectRoot string

	functionRe      *regexp.Regexp
	arrowFunctionRe *regexp.Regexp
	classRe         *regexp.Regexp
	methodRe        *regexp.Regexp
	importRe        *regexp.Regexp
	requireRe       *regexp.Regexp

	decisionRes []*regexp.Regexp
	ifRe        *regexp.Regexp
}

// NewJavaScriptExtractor creates a JS/TS extractor rooted at projectRoot.
func NewJavaScriptExtractor(projectRoot string) *JavaScriptExtractor {
	return &JavaScriptExtractor{
		projectRoot:     projectRoot,
		functionRe:      regexp.MustCompile(`(export\s+)?(async\s+)?function\s+(\w+)\s*\(([^)]*)\)`),
		arrowFunctionRe: regexp.MustCompile(`(export\s+)?(const|let|var)\s+(\w+)\s*=\s*(async\s+)?\(([^)]*)\)\s*=>`),
		classRe:         regexp.MustCompile(`(export\s+)?(default\s+)?class\s+(\w+)(\s+extends\s+(\w+))?`),
		methodRe:        regexp.MustCompile(`(async\s+)?(\w+)\s*\(([^)]*)\)\s*\{`),
		importRe:        regexp.MustCompile(`import\s+(?:(?:\{[^}]+\}|\w+|\*\s+as\s+\w+)(?:\s*,\s*(?:\{[^}]+\}|\w+))?\s+from\s+)?['"]([^'"]+)['"]`),
		requireRe:       regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
		decisionRes: []*regexp.Regexp{
			regexp.MustCompile(`\bfor\b`),
			regexp.MustCompile(`\bwhile\b`),
			regexp.MustCompile(`\bcase\s`),
			regexp.MustCompile(`\bcatch\b`),
			regexp.MustCompile(`&&`),
			regexp.MustCompile(`\|\|`),
			regexp.MustCompile(`\s\?\s`),
		},
		ifRe: regexp.MustCompile(`\bif\b`),
	}
}

// Extensions returns the JavaScript/TypeScript file extensions.
func (j *JavaScriptExtractor) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
}

// Language returns the language name.
func (j *JavaScriptExtractor) Language() string {
	return "JavaScript/TypeScript"
}

// jsFunction is an intermediate declaration record before conversion to
// the shared model.
type jsFunction struct {
	name       string
	startLine  int
	endLine    int
	isAsync    bool
	parameters []string
	estimated  bool
	complexity int
}

type jsClass struct {
	name      string
	startLine int
	endLine   int
	extends   string
	methods   []jsFunction
}

// Analyze extracts the structural model from a JS/TS file.
func (j *JavaScriptExtractor) Analyze(path string) (*model.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(decodeSource(data))
	lines := strings.Split(content, "\n")
	relPath := relativePath(j.projectRoot, path)

	classes := j.extractClasses(content, lines)
	functions := j.extractFunctions(content, lines, classes)

	mod := &model.Module{
		Name:        jsModuleName(relPath),
		FilePath:    relPath,
		Docstring:   extractFileComment(lines),
		Imports:     j.extractImports(content),
		LinesOfCode: len(lines),
	}
	for _, cls := range classes {
		mod.Classes = append(mod.Classes, j.convertClass(cls, relPath, lines))
	}
	for _, fn := range functions {
		mod.Functions = append(mod.Functions, j.convertFunction(fn, relPath, "", lines))
	}
	for _, fn := range mod.AllFunctions() {
		mod.Complexity += fn.Complexity
	}

	return mod, nil
}

// extractImports collects ES module imports and CommonJS requires,
// deduplicated and sorted.
func (j *JavaScriptExtractor) extractImports(content string) []string {
	seen := map[string]bool{}
	for _, m := range j.importRe.FindAllStringSubmatch(content, -1) {
		seen[m[1]] = true
	}
	for _, m := range j.requireRe.FindAllStringSubmatch(content, -1) {
		seen[m[1]] = true
	}
	imports := make([]string, 0, len(seen))
	for imp := range seen {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return imports
}

// extractClasses locates class declarations and bounds their bodies with
// the matching-brace scanner.
func (j *JavaScriptExtractor) extractClasses(content string, lines []string) []jsClass {
	var classes []jsClass
	for _, loc := range j.classRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[6]:loc[7]]
		extends := ""
		if loc[10] != -1 {
			extends = content[loc[10]:loc[11]]
		}

		startLine := strings.Count(content[:loc[0]], "\n") + 1
		bodyStart, bodyEnd := j.boundBody(content, loc[1])
		endLine := len(lines)
		if bodyEnd != -1 {
			endLine = strings.Count(content[:bodyEnd], "\n") + 1
		}

		cls := jsClass{
			name:      name,
			startLine: startLine,
			endLine:   endLine,
			extends:   extends,
		}
		if bodyStart != -1 {
			stop := bodyEnd
			if stop == -1 {
				stop = len(content)
			}
			bodyStartLine := strings.Count(content[:bodyStart], "\n") + 1
			cls.methods = j.extractMethods(content, content[bodyStart:stop], bodyStartLine, lines)
		}
		classes = append(classes, cls)
	}
	return classes
}

// extractMethods re-runs the method regex against a class body substring.
// Matches whose name is a control-flow keyword are rejected; the method
// regex cannot tell an `if (...) {` block from a declaration.
func (j *JavaScriptExtractor) extractMethods(content, classBody string, classStartLine int, lines []string) []jsFunction {
	var methods []jsFunction
	for _, loc := range j.methodRe.FindAllStringSubmatchIndex(classBody, -1) {
		name := classBody[loc[4]:loc[5]]
		switch name {
		case "if", "for", "while", "switch":
			// A control block header looks exactly like a method here.
			continue
		}
		isAsync := loc[2] != -1
		params := splitParameters(classBody[loc[6]:loc[7]])
		line := classStartLine + strings.Count(classBody[:loc[0]], "\n")

		fn := jsFunction{
			name:       name,
			startLine:  line,
			isAsync:    isAsync,
			parameters: params,
		}
		j.finishFunction(&fn, content, lines)
		methods = append(methods, fn)
	}
	return methods
}

// extractFunctions locates top-level named and arrow functions, skipping
// declarations that fall inside an identified class span.
func (j *JavaScriptExtractor) extractFunctions(content string, lines []string, classes []jsClass) []jsFunction {
	var functions []jsFunction

	inClass := func(line int) bool {
		for _, cls := range classes {
			if cls.startLine <= line && line <= cls.endLine {
				return true
			}
		}
		return false
	}

	for _, loc := range j.functionRe.FindAllStringSubmatchIndex(content, -1) {
		line := strings.Count(content[:loc[0]], "\n") + 1
		if inClass(line) {
			continue
		}
		fn := jsFunction{
			name:       content[loc[6]:loc[7]],
			startLine:  line,
			isAsync:    loc[4] != -1,
			parameters: splitParameters(content[loc[8]:loc[9]]),
		}
		j.finishFunction(&fn, content, lines)
		functions = append(functions, fn)
	}

	for _, loc := range j.arrowFunctionRe.FindAllStringSubmatchIndex(content, -1) {
		line := strings.Count(content[:loc[0]], "\n") + 1
		if inClass(line) {
			continue
		}
		fn := jsFunction{
			name:       content[loc[6]:loc[7]],
			startLine:  line,
			isAsync:    loc[8] != -1,
			parameters: splitParameters(content[loc[10]:loc[11]]),
		}
		j.finishFunction(&fn, content, lines)
		functions = append(functions, fn)
	}

	return functions
}

// finishFunction bounds the function body starting at its declaration
// line and fills in the end line and complexity. When no body can be
// located the end line is approximated and the complexity falls back to
// a parameter-count heuristic, flagged as estimated.
func (j *JavaScriptExtractor) finishFunction(fn *jsFunction, content string, lines []string) {
	body, endLine := j.functionBody(content, lines, fn.startLine)
	if body == "" {
		fn.endLine = fn.startLine + 10
		if fn.endLine > len(lines) {
			fn.endLine = len(lines)
		}
		if fn.endLine < fn.startLine {
			fn.endLine = fn.startLine
		}
		fn.complexity = 1 + len(fn.parameters)/3
		fn.estimated = true
		return
	}
	fn.endLine = endLine
	fn.complexity = j.countDecisionPoints(body)
}

// functionBody locates the brace-delimited body of the function declared
// at startLine. Returns the body text (braces included) and the 1-based
// line of the closing brace. An unterminated body truncates to
// end-of-file rather than failing the file.
func (j *JavaScriptExtractor) functionBody(content string, lines []string, startLine int) (string, int) {
	if startLine < 1 || startLine > len(lines) {
		return "", 0
	}
	offset := 0
	for i := 0; i < startLine-1; i++ {
		offset += len(lines[i]) + 1
	}
	bodyStart, bodyEnd := j.boundBody(content, offset)
	if bodyStart == -1 {
		return "", 0
	}
	if bodyEnd == -1 {
		return content[bodyStart:], len(lines)
	}
	return content[bodyStart : bodyEnd+1], strings.Count(content[:bodyEnd], "\n") + 1
}

// boundBody finds the first '{' at or after offset and scans for its
// matching '}'. Returns (openOffset, closeOffset); openOffset is -1 when
// no brace exists, closeOffset is -1 when the body is unterminated.
func (j *JavaScriptExtractor) boundBody(content string, offset int) (int, int) {
	open := strings.IndexByte(content[offset:], '{')
	if open == -1 {
		return -1, -1
	}
	open += offset
	return open, findMatchingBrace(content, open)
}

// findMatchingBrace scans from the opening brace at start and returns the
// offset of the brace that closes it, or -1 if end-of-text is reached
// first. Braces inside string literals (', ", `) and single-line or
// block comments do not count toward the depth; detecting the
// two-character comment delimiters needs one character of lookahead.
func findMatchingBrace(text string, start int) int {
	if start >= len(text) || text[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	var stringChar byte
	inComment := false

	i := start
	for i < len(text) {
		c := text[i]

		switch {
		case inString:
			if c == '\\' {
				i++ // skip escaped character
			} else if c == stringChar {
				inString = false
			}
		case inComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				inComment = false
				i++
			}
		case c == '\'' || c == '"' || c == '`':
			inString = true
			stringChar = c
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			inComment = true
			i++
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}

	return -1
}

// countDecisionPoints approximates cyclomatic complexity over a located
// body: base 1 plus one per if, else-if, for, while, case, catch,
// logical-AND, logical-OR and ternary. An `else if` is one decision
// point, not two; the `if` token count already covers each one once.
func (j *JavaScriptExtractor) countDecisionPoints(body string) int {
	complexity := 1
	complexity += len(j.ifRe.FindAllStringIndex(body, -1))
	for _, re := range j.decisionRes {
		complexity += len(re.FindAllStringIndex(body, -1))
	}
	return complexity
}

func (j *JavaScriptExtractor) convertFunction(fn jsFunction, relPath, className string, lines []string) model.Function {
	return model.Function{
		Name: fn.name,
		Location: model.Location{
			FilePath:     relPath,
			StartLine:    fn.startLine,
			EndLine:      fn.endLine,
			FunctionName: fn.name,
			ClassName:    className,
		},
		Parameters:          fn.parameters,
		Complexity:          fn.complexity,
		ComplexityEstimated: fn.estimated,
		IsAsync:             fn.isAsync,
		SourceCode:          extractLines(lines, fn.startLine, fn.endLine),
	}
}

func (j *JavaScriptExtractor) convertClass(cls jsClass, relPath string, lines []string) model.Class {
	c := model.Class{
		Name: cls.name,
		Location: model.Location{
			FilePath:  relPath,
			StartLine: cls.startLine,
			EndLine:   cls.endLine,
			ClassName: cls.name,
		},
		SourceCode: extractLines(lines, cls.startLine, cls.endLine),
	}
	if cls.extends != "" {
		c.Bases = []string{cls.extends}
	}
	for _, m := range cls.methods {
		c.Methods = append(c.Methods, j.convertFunction(m, relPath, cls.name, lines))
	}
	return c
}

// splitParameters splits a raw parameter list, stripping defaults and
// TypeScript type annotations.
func splitParameters(raw string) []string {
	var params []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimSpace(strings.SplitN(p, "=", 2)[0])
		p = strings.TrimSpace(strings.SplitN(p, ":", 2)[0])
		if p != "" {
			params = append(params, p)
		}
	}
	return params
}

// extractFileComment pulls a leading // or /** */ comment from the first
// lines of the file, stopping at the first real statement.
func extractFileComment(lines []string) string {
	var comment []string
	inBlock := false

	limit := len(lines)
	if limit > 20 {
		limit = 20
	}
	for _, line := range lines[:limit] {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "/**"):
			inBlock = true
			comment = append(comment, strings.TrimPrefix(stripped, "/**"))
		case inBlock:
			if strings.HasSuffix(stripped, "*/") {
				comment = append(comment, strings.TrimSuffix(stripped, "*/"))
				return strings.TrimSpace(strings.Join(comment, "\n"))
			}
			comment = append(comment, strings.TrimLeft(stripped, "* "))
		case strings.HasPrefix(stripped, "//"):
			comment = append(comment, strings.TrimSpace(strings.TrimPrefix(stripped, "//")))
		case stripped != "" && !strings.HasPrefix(stripped, "import"):
			return strings.TrimSpace(strings.Join(comment, "\n"))
		}
	}
	return strings.TrimSpace(strings.Join(comment, "\n"))
}

// jsModuleName derives the dotted module name from a relative path:
// "src/lib/util.ts" -> "src.lib.util", with a trailing index segment
// dropped ("src/lib/index.ts" -> "src.lib").
func jsModuleName(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(filepath.ToSlash(trimmed), "/")
	if len(parts) > 1 && parts[len(parts)-1] == "index" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}
