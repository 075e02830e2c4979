package gradle

import (
	"regexp"
	"strings"

	"github.com/jfrog/gofrog/log"
)

var (
	rootProjectRegex  = regexp.MustCompile(`rootProject\.name\s*[=:]\s*['"]([^'"]+)['"]`)
	pluginIdRegex     = regexp.MustCompile(`\bid\s*\(?\s*['"]([^'"]+)['"]`)
	applyPluginRegex  = regexp.MustCompile(`\bapply\s*\(?\s*plugin\s*[:=]\s*['"]([^'"]+)['"]`)
	minecraftDepRegex = regexp.MustCompile(`(?m)^\s*minecraft\s*\(?\s*('[^']*'|"[^"]*")`)
	archivesSetRegex  = regexp.MustCompile(`archivesName\.set\s*\(\s*(.+?)\s*\)`)
	propertyCallRegex = regexp.MustCompile(`^(?:project\.|rootProject\.)?(?:findProperty|property)\s*\(\s*['"]([^'"]+)['"]\s*\)(?:\.toString\(\))?$`)
	identifierRegex   = regexp.MustCompile(`^(?:project\.|rootProject\.)?([A-Za-z_][A-Za-z0-9_]*)$`)
	placeholderRegex  = regexp.MustCompile(`\$\{\s*(?:project\.|rootProject\.)?([A-Za-z_][A-Za-z0-9_]*)\s*\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// resolveExpression evaluates the small subset of Groovy/Kotlin value expressions that builds use
// for versions and names: string literals, "${prop}" templates and property references.
func resolveExpression(raw string, lookup func(key string) (string, bool)) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		// Concatenations like 'a' + 'b' are not literals.
		body := raw[1 : len(raw)-1]
		if strings.IndexByte(body, raw[0]) >= 0 {
			return "", false
		}
		if raw[0] == '\'' {
			return body, true
		}
		return interpolate(body, lookup)
	}
	if match := propertyCallRegex.FindStringSubmatch(raw); match != nil {
		return lookup(match[1])
	}
	if match := identifierRegex.FindStringSubmatch(raw); match != nil {
		return lookup(match[1])
	}
	return "", false
}

func interpolate(template string, lookup func(key string) (string, bool)) (string, bool) {
	resolved := true
	result := placeholderRegex.ReplaceAllStringFunc(template, func(placeholder string) string {
		match := placeholderRegex.FindStringSubmatch(placeholder)
		key := match[1]
		if key == "" {
			key = match[2]
		}
		value, ok := lookup(key)
		if !ok {
			resolved = false
		}
		return value
	})
	return result, resolved
}

// findTopLevelAssignment finds "key = value" or "key value" outside of any block.
func findTopLevelAssignment(content, key string) (string, bool) {
	assignmentRegex := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `(?:\s*=\s*|\s+)(.+?)\s*;?\s*$`)
	for _, line := range topLevelLines(content) {
		if match := assignmentRegex.FindStringSubmatch(line); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// topLevelLines returns the lines that start outside of every brace block.
func topLevelLines(content string) []string {
	var lines []string
	depth := 0
	for _, line := range strings.Split(content, "\n") {
		if depth == 0 {
			lines = append(lines, line)
		}
		depth += braceDelta(line)
		if depth < 0 {
			depth = 0
		}
	}
	return lines
}

func braceDelta(line string) int {
	delta := 0
	inString := false
	stringChar := byte(0)
	for i := 0; i < len(line); i++ {
		char := line[i]
		if inString {
			if char == '\\' {
				i++
				continue
			}
			if char == stringChar {
				inString = false
			}
			continue
		}
		switch char {
		case '"', '\'':
			inString = true
			stringChar = char
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

// extractBlock returns the body of the first top-level "name { ... }" block of comment-free content.
func extractBlock(content, name string) string {
	depth := 0
	inString := false
	stringChar := byte(0)
	for i := 0; i < len(content); i++ {
		char := content[i]
		if inString {
			if char == '\\' {
				i++
				continue
			}
			if char == stringChar {
				inString = false
			}
			continue
		}
		switch char {
		case '"', '\'':
			inString = true
			stringChar = char
			continue
		case '{':
			depth++
			continue
		case '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth != 0 || !strings.HasPrefix(content[i:], name) || (i > 0 && isIdentifierChar(content[i-1])) {
			continue
		}
		rest := content[i+len(name):]
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}
		start := i + len(name) + len(rest) - len(trimmed) + 1
		end, ok := findClosingBrace(content, start)
		if !ok {
			log.Debug("Unbalanced braces in " + name + " block")
			return ""
		}
		return content[start:end]
	}
	return ""
}

func findClosingBrace(content string, start int) (int, bool) {
	braceCount := 1
	inString := false
	stringChar := byte(0)
	for i := start; i < len(content); i++ {
		char := content[i]
		if inString {
			if char == '\\' {
				i++
				continue
			}
			if char == stringChar {
				inString = false
			}
			continue
		}
		switch char {
		case '"', '\'':
			inString = true
			stringChar = char
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isIdentifierChar(char byte) bool {
	return char == '_' || char == '.' || char == '$' ||
		(char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')
}

// stripComments removes single-line (//) and multi-line (/* */) comments from content
func stripComments(content string) string {
	var result strings.Builder
	inBlockComment := false
	inString := false
	stringChar := byte(0)
	i := 0

	for i < len(content) {
		char := content[i]

		// Handle string literals to avoid removing comments inside strings
		if !inBlockComment {
			if inString {
				result.WriteByte(char)
				if char == '\\' && i+1 < len(content) {
					i++
					result.WriteByte(content[i])
				} else if char == stringChar || char == '\n' {
					inString = false
				}
				i++
				continue
			}
			if char == '"' || char == '\'' {
				inString = true
				stringChar = char
				result.WriteByte(char)
				i++
				continue
			}
		}

		if !inBlockComment && i+1 < len(content) && char == '/' && content[i+1] == '*' {
			inBlockComment = true
			i += 2
			continue
		}

		if inBlockComment && i+1 < len(content) && char == '*' && content[i+1] == '/' {
			inBlockComment = false
			i += 2
			continue
		}

		if inBlockComment {
			// Preserve newlines for line counting
			if char == '\n' {
				result.WriteByte('\n')
			}
			i++
			continue
		}

		if i+1 < len(content) && char == '/' && content[i+1] == '/' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}
		result.WriteByte(char)
		i++
	}
	return result.String()
}
