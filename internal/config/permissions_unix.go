//go:build unix

package config

import (
	"fmt"
	"os"
)

// checkFilePermissions returns a warning if the config file is readable by group or others.
func checkFilePermissions(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "" // Can't check, skip warning
	}

	mode := info.Mode().Perm()

	// Only a problem when the file can hold a password readable by others
	if mode&0044 == 0 {
		return ""
	}
	return fmt.Sprintf(
		"WARNING: volumetry config '%s' is readable by other users (%04o)\n"+
			"         Passwords in database.password would be exposed; prefer ${ENV} references.\n"+
			"         Run: chmod 600 %s\n\n",
		path, mode, path,
	)
}
