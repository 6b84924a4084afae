package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookPath(found map[string]string) func(string) (string, error) {
	return func(bin string) (string, error) {
		if path, ok := found[bin]; ok {
			return path, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func fakeVersionRunner(versions map[string]string) func(context.Context, string, ...string) (string, error) {
	return func(_ context.Context, bin string, _ ...string) (string, error) {
		if v, ok := versions[bin]; ok {
			return v, nil
		}
		return "", errors.New("exec failed")
	}
}

func TestCheckNode_VersionGate(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		wantStatus CheckStatus
		wantInMsg  string
	}{
		{"at minimum", "v20.0.0", StatusPass, "v20.0.0"},
		{"above minimum", "v22.3.1", StatusPass, "v22.3.1"},
		{"below minimum fails like absent", "v18.19.1", StatusFail, "too old"},
		{"way below minimum", "v8.17.0", StatusFail, "too old"},
		{"garbage version", "nonsense", StatusFail, "unparseable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(
				WithLookPath(fakeLookPath(map[string]string{"node": "/usr/bin/node"})),
				WithVersionRunner(fakeVersionRunner(map[string]string{"node": tt.version})),
			)

			result := checker.CheckNode(context.Background())

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.True(t, result.Required)
			assert.Contains(t, result.Message, tt.wantInMsg)
		})
	}
}

func TestCheckNode_NotInstalled(t *testing.T) {
	checker := New(WithLookPath(fakeLookPath(nil)))

	result := checker.CheckNode(context.Background())

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, "not installed", result.Message)
	assert.Contains(t, result.Remedy, "nvm install 20")
}

func TestCheckNode_VersionQueryFails(t *testing.T) {
	checker := New(
		WithLookPath(fakeLookPath(map[string]string{"node": "/usr/bin/node"})),
		WithVersionRunner(fakeVersionRunner(nil)),
	)

	result := checker.CheckNode(context.Background())

	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "version query failed")
}

func TestCheckNode_CustomMinimum(t *testing.T) {
	checker := New(
		WithNodeMinMajor(22),
		WithLookPath(fakeLookPath(map[string]string{"node": "/usr/bin/node"})),
		WithVersionRunner(fakeVersionRunner(map[string]string{"node": "v20.11.0"})),
	)

	result := checker.CheckNode(context.Background())

	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, ">= v22")
}

func TestParseMajor(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"v20.11.0", 20, false},
		{"18.2", 18, false},
		{"v8", 8, false},
		{" v21.0.0 ", 21, false},
		{"", 0, true},
		{"vx.y.z", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMajor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
