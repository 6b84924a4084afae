package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase yes", "Y\n", true},
		{"no", "n\n", false},
		{"empty input declines", "\n", false},
		{"whitespace declines", "   \n", false},
		{"garbage declines", "sure why not\n", false},
		{"eof declines", "", false},
		{"yes without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			got, err := Confirm(out, strings.NewReader(tt.input), "Continue anyway?")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Continue anyway? [y/N]: ")
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read error")
}

func TestConfirm_ReadError(t *testing.T) {
	out := &bytes.Buffer{}
	got, err := Confirm(out, failingReader{}, "Continue anyway?")

	require.Error(t, err)
	assert.False(t, got)
}
