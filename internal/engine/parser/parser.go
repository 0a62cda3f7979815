package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"skiplint/internal/core/errors"
	"skiplint/internal/engine/pyast"
	"skiplint/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor lowers a concrete syntax tree into the pyast model.
type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*pyast.Module, error)
}

// Parser turns source files into pyast modules. It is safe for concurrent
// use; each language keeps its own parser pool.
type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor
	pools      map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		pools:      make(map[string]*ParserPool),
	}
	for id, lang := range loader.languages {
		p.pools[id] = NewParserPool(lang)
	}
	p.extractors["python"] = &PythonExtractor{}
	return p
}

// ParseFile parses content and lowers it. When the source has syntax errors
// the error-tolerant module is still returned together with a PARSE_ERROR
// carrying the position of the first error, so callers may decide whether
// to lint it anyway.
func (p *Parser) ParseFile(path string, content []byte) (*pyast.Module, error) {
	lang := p.GetLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported file type"), errors.CtxPath, path)
	}
	extractor := p.extractors[lang]
	pool := p.pools[lang]
	if extractor == nil || pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	start := time.Now()
	tree := pool.Parse(content)
	observability.ParseDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	mod, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}

	if bad := firstSyntaxError(root); bad != nil {
		ctx := &ExtractionContext{Source: content, Path: path}
		pos := ctx.Position(bad)
		de := &errors.DomainError{Code: errors.CodeParse, Message: "invalid syntax"}
		de.WithContext(errors.CtxPath, path).
			WithContext(errors.CtxLine, pos.Line).
			WithContext(errors.CtxColumn, pos.Column)
		return mod, de
	}
	return mod, nil
}

// ParseSource is a convenience for in-memory sources such as tests and
// stdin; path is only used for language detection and reporting.
func (p *Parser) ParseSource(path, source string) (*pyast.Module, error) {
	return p.ParseFile(path, []byte(source))
}

func (p *Parser) GetLanguage(path string) string {
	return p.loader.languageForExt(filepath.Ext(path))
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.GetLanguage(path) != ""
}

// IsTestFile matches pytest naming conventions.
func (p *Parser) IsTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") || base == "conftest.py"
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

// SyntaxErrorPosition extracts the position recorded on a PARSE_ERROR.
func SyntaxErrorPosition(err error) (pyast.Position, bool) {
	var de *errors.DomainError
	if !errors.As(err, &de) || de.Code != errors.CodeParse {
		return pyast.Position{}, false
	}
	line, _ := de.Context[errors.CtxLine].(int)
	col, _ := de.Context[errors.CtxColumn].(int)
	return pyast.Position{Line: line, Column: col}, line > 0
}

// Stats sums parser pool usage across languages.
func (p *Parser) Stats() (active, created int64) {
	for _, pool := range p.pools {
		a, c := pool.Stats()
		active += a
		created += c
	}
	return active, created
}
