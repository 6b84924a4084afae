package preflight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckVersionedTool(t *testing.T) {
	t.Run("installed with version", func(t *testing.T) {
		checker := New(
			WithLookPath(fakeLookPath(map[string]string{"gcc": "/usr/bin/gcc"})),
			WithVersionRunner(fakeVersionRunner(map[string]string{"gcc": "gcc (Debian 12.2.0-14) 12.2.0"})),
		)

		result := checker.CheckCompiler(context.Background(), "gcc", "sudo apt-get install build-essential")

		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "gcc (Debian 12.2.0-14) 12.2.0", result.Message)
		assert.Equal(t, "/usr/bin/gcc", result.Details)
	})

	t.Run("installed but version query fails still passes", func(t *testing.T) {
		checker := New(
			WithLookPath(fakeLookPath(map[string]string{"make": "/usr/bin/make"})),
			WithVersionRunner(fakeVersionRunner(nil)),
		)

		result := checker.CheckCompiler(context.Background(), "make", "sudo apt-get install build-essential")

		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "installed", result.Message)
	})

	t.Run("missing critical tool", func(t *testing.T) {
		checker := New(WithLookPath(fakeLookPath(nil)))

		result := checker.CheckCompiler(context.Background(), "g++", "sudo apt-get install build-essential")

		assert.Equal(t, StatusFail, result.Status)
		assert.True(t, result.Required)
		assert.Equal(t, "sudo apt-get install build-essential", result.Remedy)
	})
}

func TestCheckPM2_Optional(t *testing.T) {
	checker := New(WithLookPath(fakeLookPath(nil)))

	result := checker.CheckPM2(context.Background())

	assert.Equal(t, StatusFail, result.Status)
	assert.False(t, result.Required)
	assert.False(t, result.IsCritical())
	assert.Equal(t, "npm install -g pm2", result.Remedy)
}

func TestCheckHeaders(t *testing.T) {
	t.Run("found under a prefix", func(t *testing.T) {
		checker := New(WithFileExists(func(path string) bool {
			return path == "/usr/local/include/sodium.h"
		}))

		result := checker.CheckLibsodium()

		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "/usr/local/include/sodium.h", result.Details)
	})

	t.Run("missing is optional fail", func(t *testing.T) {
		checker := New(WithFileExists(func(string) bool { return false }))

		result := checker.CheckBoost()

		assert.Equal(t, StatusFail, result.Status)
		assert.False(t, result.Required)
		assert.Equal(t, "sudo apt-get install libboost-all-dev", result.Remedy)
	})
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "v20.11.0", firstLine("v20.11.0\n"))
	assert.Equal(t, "line one", firstLine("line one\nline two\n"))
	assert.Equal(t, "", firstLine("  \n"))
}
