package mdstream

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// DetectOSC8Support reports whether the terminal advertised by the
// environment is known to render OSC 8 hyperlinks. Setting OSC8=0 forces
// plain links regardless of terminal.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	for _, marker := range []string{"DOMTERM", "WT_SESSION"} {
		if os.Getenv(marker) != "" {
			return true
		}
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode":
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	// VTE gained OSC 8 in 0.50; VTE_VERSION encodes it as MMmmpp.
	if n, err := strconv.Atoi(os.Getenv("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}
