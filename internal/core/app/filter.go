package app

import (
	"strings"
)

// codeFilter applies select/ignore code prefixes. Ignore wins over select;
// an empty select keeps everything.
type codeFilter struct {
	selectPrefixes []string
	ignorePrefixes []string
}

func newCodeFilter(selectCodes, ignoreCodes []string) codeFilter {
	return codeFilter{
		selectPrefixes: normalizeCodes(selectCodes),
		ignorePrefixes: normalizeCodes(ignoreCodes),
	}
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (f codeFilter) keep(code string) bool {
	code = strings.ToUpper(code)
	for _, p := range f.ignorePrefixes {
		if strings.HasPrefix(code, p) {
			return false
		}
	}
	if len(f.selectPrefixes) == 0 {
		return true
	}
	for _, p := range f.selectPrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
