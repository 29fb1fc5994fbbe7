package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"~", home},
		{"~/logs/ctop.log", filepath.Join(home, "logs", "ctop.log")},
		{"/var/log/ctop.log", "/var/log/ctop.log"},
		{"~other/ctop.log", "~other/ctop.log"},
		{"logs/~/ctop.log", "logs/~/ctop.log"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpandTilde(tt.input), "input %q", tt.input)
	}
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "ops")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"home", "${HOME}/ctop.log", home + "/ctop.log"},
		{"user", "/tmp/ctop-${USER}.log", "/tmp/ctop-ops.log"},
		{"both", "${HOME}/${USER}", home + "/ops"},
		{"no variables", "/var/log/ctop.log", "/var/log/ctop.log"},
		{"unknown variable kept", "${PROJECT}.log", "${PROJECT}.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input))
		})
	}
}
