package extract

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"codescope/internal/model"
)

// PythonExtractor builds the structural model for Python files from a
// full tree-sitter syntax tree.
type PythonExtractor struct {
	projectRoot string
	language    *sitter.Language
}

// NewPythonExtractor creates a Python extractor rooted at projectRoot.
func NewPythonExtractor(projectRoot string) *PythonExtractor {
	return &PythonExtractor{
		projectRoot: projectRoot,
		language:    sitter.NewLanguage(python.Language()),
	}
}

// Extensions returns the Python file extensions.
func (p *PythonExtractor) Extensions() []string {
	return []string{".py", ".pyi"}
}

// Language returns the language name.
func (p *PythonExtractor) Language() string {
	return "Python"
}

// Analyze parses a Python source file. Undecodable or syntactically
// broken files return (nil, nil) so the caller can skip them.
func (p *PythonExtractor) Analyze(path string) (*model.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := decodeSource(data)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		// Malformed source (Python 2, partial edits). Not fatal to the run.
		return nil, nil
	}

	relPath := relativePath(p.projectRoot, path)
	lines := strings.Split(string(source), "\n")

	mod := &model.Module{
		Name:        pythonModuleName(relPath),
		FilePath:    relPath,
		Docstring:   docstringOf(root, source),
		LinesOfCode: len(lines),
	}

	p.collectImports(root, source, mod)

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		def, decorators := unwrapDecorated(child, source)
		switch def.Kind() {
		case "class_definition":
			mod.Classes = append(mod.Classes, p.extractClass(def, source, lines, relPath, decorators))
		case "function_definition":
			mod.Functions = append(mod.Functions, p.extractFunction(def, source, lines, relPath, "", decorators))
		}
	}

	for _, fn := range mod.AllFunctions() {
		mod.Complexity += fn.Complexity
	}

	return mod, nil
}

// collectImports records every import and from-import target in the tree.
func (p *PythonExtractor) collectImports(root *sitter.Node, source []byte, mod *model.Module) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				switch child.Kind() {
				case "dotted_name":
					mod.Imports = append(mod.Imports, nodeText(child, source))
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						mod.Imports = append(mod.Imports, nodeText(name, source))
					}
				}
			}
		case "import_from_statement":
			if name := n.ChildByFieldName("module_name"); name != nil {
				mod.Imports = append(mod.Imports, nodeText(name, source))
			}
		}
		return true
	})
}

func (p *PythonExtractor) extractClass(node *sitter.Node, source []byte, lines []string, relPath string, decorators []string) model.Class {
	name := nodeText(node.ChildByFieldName("name"), source)
	startLine := int(node.StartPosition().Row) + 1
	endLine := int(node.EndPosition().Row) + 1

	cls := model.Class{
		Name: name,
		Location: model.Location{
			FilePath:  relPath,
			StartLine: startLine,
			EndLine:   endLine,
			ClassName: name,
		},
		SourceCode: extractLines(lines, startLine, endLine),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.ChildCount()); i++ {
			child := supers.Child(uint(i))
			switch child.Kind() {
			case "identifier", "attribute":
				cls.Bases = append(cls.Bases, nodeText(child, source))
			}
		}
	}

	for _, dec := range decorators {
		if dec == "abstractmethod" || dec == "ABC" {
			cls.IsAbstract = true
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.Docstring = docstringOf(body, source)

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		def, methodDecs := unwrapDecorated(child, source)
		switch def.Kind() {
		case "function_definition":
			cls.Methods = append(cls.Methods, p.extractFunction(def, source, lines, relPath, name, methodDecs))
		case "expression_statement":
			// Annotated class attribute: "x: int = ...".
			if assign := firstChildOfKind(child, "assignment"); assign != nil {
				left := assign.ChildByFieldName("left")
				if left != nil && left.Kind() == "identifier" && assign.ChildByFieldName("type") != nil {
					cls.Attributes = append(cls.Attributes, nodeText(left, source))
				}
			}
		}
	}

	return cls
}

func (p *PythonExtractor) extractFunction(node *sitter.Node, source []byte, lines []string, relPath, className string, decorators []string) model.Function {
	name := nodeText(node.ChildByFieldName("name"), source)
	startLine := int(node.StartPosition().Row) + 1
	endLine := int(node.EndPosition().Row) + 1

	fn := model.Function{
		Name: name,
		Location: model.Location{
			FilePath:     relPath,
			StartLine:    startLine,
			EndLine:      endLine,
			FunctionName: name,
			ClassName:    className,
		},
		Complexity: 1,
		Decorators: decorators,
		SourceCode: extractLines(lines, startLine, endLine),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Parameters = parameterNames(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = nodeText(ret, source)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Docstring = docstringOf(body, source)
	}
	if first := node.Child(0); first != nil && first.Kind() == "async" {
		fn.IsAsync = true
	}

	walkTree(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "if_statement", "elif_clause", "for_statement", "while_statement", "except_clause":
			fn.Complexity++
		case "yield":
			fn.IsGenerator = true
		case "call":
			if callee := calleeName(n.ChildByFieldName("function"), source); callee != "" {
				fn.Calls = append(fn.Calls, callee)
			}
		}
		return true
	})

	return fn
}

// calleeName resolves a call target textually: a.b.c(...) -> "a.b.c".
// Anything more dynamic (subscripts, lambdas) yields "".
func calleeName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "identifier":
		return nodeText(node, source)
	case "attribute":
		base := calleeName(node.ChildByFieldName("object"), source)
		attr := nodeText(node.ChildByFieldName("attribute"), source)
		if base == "" {
			return attr
		}
		return base + "." + attr
	case "call":
		return calleeName(node.ChildByFieldName("function"), source)
	}
	return ""
}

// unwrapDecorated returns the wrapped definition and its decorator names
// when node is a decorated_definition, or the node itself otherwise.
func unwrapDecorated(node *sitter.Node, source []byte) (*sitter.Node, []string) {
	if node == nil || node.Kind() != "decorated_definition" {
		return node, nil
	}
	var decorators []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "decorator" {
			text := strings.TrimPrefix(nodeText(child, source), "@")
			// Drop call arguments: "@app.route('/x')" -> "app.route".
			if idx := strings.Index(text, "("); idx != -1 {
				text = text[:idx]
			}
			decorators = append(decorators, strings.TrimSpace(text))
		}
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def, decorators
	}
	return node, decorators
}

// docstringOf returns the docstring of a module or block body: the string
// literal of a leading expression statement, quotes stripped.
func docstringOf(body *sitter.Node, source []byte) string {
	if body == nil {
		return ""
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() != "expression_statement" {
			return ""
		}
		if str := firstChildOfKind(child, "string"); str != nil {
			return stripQuotes(nodeText(str, source))
		}
		return ""
	}
	return ""
}

func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// parameterNames extracts bare parameter names from a parameters node,
// dropping annotations and defaults.
func parameterNames(params *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			} else if id := firstChildOfKind(child, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := firstChildOfKind(child, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		}
	}
	return names
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return s
}

// pythonModuleName derives the dotted module name from a relative path:
// "pkg/sub/mod.py" -> "pkg.sub.mod", with a trailing __init__ dropped.
func pythonModuleName(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(filepath.ToSlash(trimmed), "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return "__main__"
	}
	return strings.Join(parts, ".")
}

// relativePath makes path relative to root, falling back to the input
// when it lies outside the root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
