//go:build windows

package config

import (
	"fmt"
	"os/exec"
	"strings"
)

// broadPrincipals are account names whose read grant exposes the file to
// other local users.
var broadPrincipals = []string{"everyone", "authenticated users", "builtin\\users"}

// checkFilePermissions returns a warning if icacls lists a read grant for a
// broad principal on the config file.
func checkFilePermissions(path string) string {
	output, err := exec.Command("icacls", path).Output()
	if err != nil {
		return ""
	}
	principal := broadReadGrant(string(output))
	if principal == "" {
		return ""
	}
	return fmt.Sprintf(
		"WARNING: volumetry config '%s' is readable by %s\n"+
			"         Passwords in database.password would be exposed; prefer ${ENV} references.\n"+
			"         Run in PowerShell: icacls \"%s\" /inheritance:r /grant:r \"%%USERNAME%%:F\"\n\n",
		path, principal, path,
	)
}

// broadReadGrant scans icacls output lines such as "BUILTIN\Users:(I)(RX)"
// and returns the first broad principal holding a read-capable right.
func broadReadGrant(output string) string {
	for _, line := range strings.Split(strings.ToLower(output), "\n") {
		for _, p := range broadPrincipals {
			idx := strings.Index(line, p+":")
			if idx == -1 {
				continue
			}
			rights := line[idx+len(p)+1:]
			for _, r := range []string{"(f)", "(m)", "(rx)", "(r)"} {
				if strings.Contains(rights, r) {
					return p
				}
			}
		}
	}
	return ""
}
