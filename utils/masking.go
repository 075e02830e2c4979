package utils

import (
	"regexp"
	"strings"
)

// #nosec G101 -- False positive - no hardcoded credentials.
const CredentialsInUrlRegexp = `(?:http|https|git)://[^/\s]+@`

var credentialsInUrl = regexp.MustCompile(CredentialsInUrlRegexp)

// RemoveCredentials hides the user info of every URL in the line.
func RemoveCredentials(line string) string {
	return credentialsInUrl.ReplaceAllStringFunc(line, func(match string) string {
		return match[:strings.Index(match, "//")+2] + "***@"
	})
}

// MaskToken keeps only enough of a secret to tell two tokens apart in logs.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***"
}
