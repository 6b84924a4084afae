package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "// lazy load verushash only when needed"

const algoProperties = `var util = require('./util.js');
var vh = require('verushash');

module.exports = function(algorithm, data) {
    var result;
    switch (algorithm) {
        case 'sha256':
            result = util.sha256d(data);
            break;
        case 'verushash':
            result = vh.hash(data);
            break;
        case 'verushash-v2':
            result = vh.hash(data, 2);
            break;
    }
    return result;
};
`

func TestTransform(t *testing.T) {
	got := Transform(algoProperties, marker)

	t.Run("require becomes a null binding with the marker", func(t *testing.T) {
		assert.Contains(t, got, "var vh = null; "+marker)
		assert.NotContains(t, got, "var vh = require('verushash');")
	})

	t.Run("lazy load lands immediately before the branch invocation", func(t *testing.T) {
		lines := strings.Split(got, "\n")
		idx := -1
		for i, line := range lines {
			if strings.Contains(line, "if (vh === null) { vh = require('verushash'); }") {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0, "lazy load statement not inserted")
		assert.Contains(t, lines[idx+1], "result = vh.hash(data);")
		assert.Contains(t, lines[idx-1], "case 'verushash':")
	})

	t.Run("insertion happens exactly once", func(t *testing.T) {
		assert.Equal(t, 1, strings.Count(got, "vh = require('verushash')"))
	})

	t.Run("insertion matches the invocation line indentation", func(t *testing.T) {
		for _, line := range strings.Split(got, "\n") {
			if strings.Contains(line, "if (vh === null)") {
				assert.True(t, strings.HasPrefix(line, "            if"), "got %q", line)
			}
		}
	})

	t.Run("other branches are untouched", func(t *testing.T) {
		assert.Contains(t, got, "result = util.sha256d(data);")
		assert.Contains(t, got, "result = vh.hash(data, 2);")
		v2 := strings.Index(got, "case 'verushash-v2':")
		lazy := strings.Index(got, "if (vh === null)")
		assert.Less(t, lazy, v2, "insertion must precede the unrelated branch")
	})
}

func TestTransform_DeclarationKeywords(t *testing.T) {
	for _, kw := range []string{"var", "let", "const"} {
		t.Run(kw, func(t *testing.T) {
			src := strings.Replace(algoProperties, "var vh = require('verushash');", kw+" vh = require('verushash');", 1)
			got := Transform(src, marker)
			assert.Contains(t, got, "var vh = null; "+marker)
		})
	}
}

func TestTransform_MissingAnchorsReturnsInputUnchanged(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "no require line",
			src:  strings.Replace(algoProperties, "var vh = require('verushash');\n", "", 1),
		},
		{
			name: "no verushash branch",
			src: `var vh = require('verushash');
switch (a) {
    case 'sha256':
        break;
}
`,
		},
		{
			name: "branch has no invocation before break",
			src: `var vh = require('verushash');
switch (a) {
    case 'verushash':
        break;
    case 'x':
        r = vh.hash(d);
        break;
}
`,
		},
		{
			name: "branch runs into the next label without invocation",
			src: `var vh = require('verushash');
switch (a) {
    case 'verushash':
    case 'x':
        r = vh.hash(d);
        break;
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.src, Transform(tt.src, marker))
		})
	}
}

func TestTransform_RequireVariants(t *testing.T) {
	variants := []string{
		`var vh = require("verushash");`,
		`var vh = require( 'verushash' );`,
		`  var vh = require('verushash')`,
	}
	for _, v := range variants {
		t.Run(v, func(t *testing.T) {
			src := strings.Replace(algoProperties, "var vh = require('verushash');", v, 1)
			got := Transform(src, marker)
			assert.Contains(t, got, "var vh = null; "+marker)
		})
	}
}
