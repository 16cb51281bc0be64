package ruleset

import (
	"strings"

	version "github.com/hashicorp/go-version"
)

// VersionToken returns the first whitespace-separated "vX.Y.Z" token of a
// crash generator version line, without the leading "v". Returns "" when
// no such token exists.
func VersionToken(s string) string {
	for _, part := range strings.Fields(s) {
		if len(part) > 1 && part[0] == 'v' {
			return part[1:]
		}
	}
	return ""
}

// ParseCrashgenVersion parses a crash generator version line such as
// "Buffout 4 v1.26.2 Feb 28 2023". Lines without a version token parse as
// 0.0.0 so that comparisons treat them as outdated.
func ParseCrashgenVersion(s string) *version.Version {
	token := VersionToken(strings.TrimSpace(s))
	if token == "" {
		token = "0.0.0"
	}
	v, err := version.NewVersion(token)
	if err != nil {
		return version.Must(version.NewVersion("0.0.0"))
	}
	return v
}
