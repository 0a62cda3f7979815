package parser

import (
	"fmt"
	"sort"
	"strings"

	"skiplint/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// LanguageSpec describes which files a grammar is used for.
type LanguageSpec struct {
	Name       string
	Extensions []string
}

// DefaultLanguages lists the grammars the linter understands. Stub files
// share the Python grammar.
func DefaultLanguages() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"python": {Name: "python", Extensions: []string{".py", ".pyi"}},
	}
}

// GrammarLoader resolves tree-sitter grammars by language id.
type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func NewGrammarLoader() (*GrammarLoader, error) {
	return NewGrammarLoaderWithRegistry(DefaultLanguages())
}

func NewGrammarLoaderWithRegistry(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if len(registry) == 0 {
		return nil, errors.New(errors.CodeValidationError, "language registry must not be empty")
	}
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language, len(registry)),
		registry:  make(map[string]LanguageSpec, len(registry)),
	}
	seen := make(map[string]string)
	for id, spec := range registry {
		switch id {
		case "python":
			gl.languages[id] = sitter.NewLanguage(tree_sitter_python.Language())
		default:
			return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("language %q is not supported", id))
		}
		exts := make([]string, 0, len(spec.Extensions))
		for _, ext := range spec.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if owner, dup := seen[ext]; dup && owner != id {
				return nil, errors.New(errors.CodeConflict, fmt.Sprintf("extension %s registered for both %s and %s", ext, owner, id))
			}
			seen[ext] = id
			exts = append(exts, ext)
		}
		spec.Extensions = exts
		gl.registry[id] = spec
	}
	return gl, nil
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	set := make(map[string]bool)
	for _, spec := range gl.registry {
		for _, ext := range spec.Extensions {
			set[ext] = true
		}
	}
	extensions := make([]string, 0, len(set))
	for ext := range set {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

func (gl *GrammarLoader) languageForExt(ext string) string {
	ext = strings.ToLower(ext)
	for id, spec := range gl.registry {
		for _, candidate := range spec.Extensions {
			if candidate == ext {
				return id
			}
		}
	}
	return ""
}
