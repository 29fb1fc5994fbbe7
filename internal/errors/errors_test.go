package errors

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrTransport,
		ErrFormat,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Invalid fleet size", "Set fleet.size to at least 1")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "Invalid fleet size", err.Message)
	assert.Equal(t, "Set fleet.size to at least 1", err.Suggestion)
	assert.Nil(t, err.Cause)
}

func TestWrap_DefaultsToTransport(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, "Lost the channel")

	assert.Equal(t, ErrTransport, err.Code)
	assert.Equal(t, cause, err.Cause)
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name:     "message only",
			err:      New(ErrConfig, "Bad template", ""),
			contains: []string{"✗ Bad template"},
		},
		{
			name: "with cause and suggestion",
			err: WrapWithCode(errors.New("dial tcp: i/o timeout"), ErrSSH,
				"Can't reach 'node01'", "Check the host is up"),
			contains: []string{"✗ Can't reach 'node01'", "dial tcp: i/o timeout", "Check the host is up"},
		},
		{
			name:     "no suggestion",
			err:      Transport("node02", io.ErrUnexpectedEOF),
			contains: []string{"node02", "unexpected EOF"},
			excludes: []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestTransportAndFormat(t *testing.T) {
	sentinel := errors.New("interface not found")

	terr := Transport("node03", io.EOF)
	ferr := Format("node03", sentinel)

	assert.True(t, IsCode(terr, ErrTransport))
	assert.False(t, IsCode(terr, ErrFormat))
	assert.True(t, IsCode(ferr, ErrFormat))
	assert.True(t, errors.Is(ferr, sentinel))
	assert.True(t, errors.Is(terr, io.EOF))
}

func TestIsCode(t *testing.T) {
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(errors.New("plain"), ErrConfig))

	wrapped := WrapWithCode(New(ErrFormat, "inner", ""), ErrConfig, "outer", "")
	assert.True(t, IsCode(wrapped, ErrConfig))
}

func TestShortAndSummary(t *testing.T) {
	inner := New(ErrSSH, "Can't reach 'node04'", "ignored in short form")
	outer := Transport("node04", inner)

	assert.Equal(t, "No snapshot from 'node04': Can't reach 'node04'", outer.Short())
	assert.Equal(t, outer.Short(), Summary(outer))
	assert.Equal(t, "plain", Summary(errors.New("plain")))
	assert.Equal(t, "", Summary(nil))

	short := New(ErrFormat, "just a message", "").Short()
	assert.False(t, strings.Contains(short, ":"))
}
