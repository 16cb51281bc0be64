package analyzer

import (
	"fmt"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// CheckVersion compares the detected crash generator version against the
// latest known releases (flat and VR builds count equally).
func CheckVersion(detected string, rs *ruleset.RuleSet) []string {
	current := ruleset.ParseCrashgenVersion(detected)
	latest, latestVR := rs.CrashgenLatestVersions()

	upToDate := (latest == nil && latestVR == nil) ||
		(latest != nil && current.GreaterThanOrEqual(latest)) ||
		(latestVR != nil && current.GreaterThanOrEqual(latestVR))

	if upToDate {
		return []string{fmt.Sprintf("* You have the latest version of %s! *\n\n", rs.Game.CrashgenName)}
	}
	return []string{rs.Warnings.Outdated + " \n"}
}
