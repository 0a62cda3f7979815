package app

import "testing"

func TestCodeFilter(t *testing.T) {
	tests := []struct {
		name   string
		sel    []string
		ignore []string
		code   string
		want   bool
	}{
		{"empty keeps all", nil, nil, "SKP100", true},
		{"select prefix", []string{"SKP10"}, nil, "SKP101", true},
		{"select miss", []string{"TCS"}, nil, "SKP101", false},
		{"ignore wins", []string{"SKP"}, []string{"SKP102"}, "SKP102", false},
		{"case insensitive", []string{" skp "}, nil, "SKP100", true},
		{"blank entries dropped", []string{""}, []string{"  "}, "SKP100", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newCodeFilter(tt.sel, tt.ignore).keep(tt.code); got != tt.want {
				t.Errorf("keep(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
