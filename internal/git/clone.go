// Package git adjusts git commands issued by pipeline steps.
package git

import (
	"strconv"
	"strings"
)

// IsClone reports whether the shell command is a git clone invocation.
func IsClone(command string) bool {
	fields := strings.Fields(command)
	return len(fields) >= 2 && fields[0] == "git" && fields[1] == "clone"
}

// EnsureDepth injects --depth into a git clone command that doesn't pin one,
// so configuration-driven clones stay shallow. Commands that already carry
// --depth, and non-clone commands, pass through untouched. A depth of zero
// disables injection.
func EnsureDepth(command string, depth int) string {
	if depth <= 0 || !IsClone(command) {
		return command
	}
	if strings.Contains(command, "--depth") {
		return command
	}

	fields := strings.Fields(command)
	out := make([]string, 0, len(fields)+2)
	out = append(out, fields[0], fields[1], "--depth", strconv.Itoa(depth))
	out = append(out, fields[2:]...)
	return strings.Join(out, " ")
}
