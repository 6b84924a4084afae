package patch

import (
	"regexp"
	"strings"
)

// requireLine matches the eager verushash load, tolerant of declaration
// keyword, quoting, and surrounding whitespace.
var requireLine = regexp.MustCompile(`^(\s*)(?:var|let|const)\s+vh\s*=\s*require\(\s*['"]verushash['"]\s*\)\s*;?\s*$`)

// caseLabel matches the start of the verushash dispatch branch.
var caseLabel = regexp.MustCompile(`^\s*case\s+['"]verushash['"]\s*:`)

// anyLabel marks the start of any other branch, which ends the search.
var anyLabel = regexp.MustCompile(`^\s*(?:case\s+|default\s*:)`)

var leadingWhitespace = regexp.MustCompile(`^\s*`)

// Transform rewrites the eager verushash require into a lazy one.
//
// Part one replaces the top-level require with a null binding carrying the
// marker comment. Part two inserts a guarded load immediately before the
// first vh.hash invocation inside the case 'verushash' branch, and nowhere
// else. The transformation is all-or-nothing: if either anchor is missing
// the input is returned unchanged, so the caller's marker verification
// fails and the backup is restored.
func Transform(content, marker string) string {
	lines := strings.Split(content, "\n")

	requireIdx := -1
	indent := ""
	for i, line := range lines {
		if m := requireLine.FindStringSubmatch(line); m != nil {
			requireIdx = i
			indent = m[1]
			break
		}
	}
	if requireIdx < 0 {
		return content
	}

	hashIdx := findBranchInvocation(lines)
	if hashIdx < 0 {
		return content
	}

	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		if i == requireIdx {
			out = append(out, indent+"var vh = null; "+marker)
			continue
		}
		if i == hashIdx {
			hashIndent := leadingWhitespace.FindString(line)
			out = append(out, hashIndent+"if (vh === null) { vh = require('verushash'); }")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// findBranchInvocation returns the index of the first vh.hash line inside
// the case 'verushash' branch, or -1. The branch runs from its label to
// its break; another label before either ends the search.
func findBranchInvocation(lines []string) int {
	inBranch := false
	for i, line := range lines {
		if !inBranch {
			if caseLabel.MatchString(line) {
				inBranch = true
			}
			continue
		}
		if strings.Contains(line, "vh.hash") {
			return i
		}
		if strings.Contains(line, "break;") || anyLabel.MatchString(line) {
			return -1
		}
	}
	return -1
}
