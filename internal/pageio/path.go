package pageio

import (
	"os"
	"strings"
)

// expandUser expands a leading "~" or "~/..." to the current user's home
// directory, matching the original's os.path.expanduser call on every
// filename TECO opens.
func expandUser(name string) string {
	if name != "~" && !strings.HasPrefix(name, "~/") {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	if name == "~" {
		return home
	}
	return home + name[1:]
}
