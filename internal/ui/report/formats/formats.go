package formats

import (
	"fmt"
	"io"
	"strings"

	"skiplint/internal/core/errors"
	"skiplint/internal/core/ports"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Options tune rendering. ProjectRoot makes SARIF URIs relative.
type Options struct {
	Color       string
	ProjectRoot string
	Summary     bool
}

// Write renders result to w in the named format.
func Write(w io.Writer, format string, result ports.LintResult, opts Options) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "", FormatText:
		data = []byte(NewTextGenerator(w, opts.Color).Generate(result, opts.Summary))
	case FormatJSON:
		data, err = GenerateJSON(result)
	case FormatSARIF:
		data, err = GenerateSARIF(opts.ProjectRoot, result)
	default:
		return errors.New(errors.CodeNotSupported, fmt.Sprintf("unknown output format %q", format))
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "render report")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write report")
	}
	return nil
}
