package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// promptConnectConfirmation asks before contacting the wallet agent.
// Non-interactive runs skip the prompt and proceed, matching the
// behavior of --yes.
func promptConnectConfirmation(cmd *cobra.Command) bool {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		stdin = os.Stdin
	}

	if !term.IsTerminal(int(stdin.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
		return true
	}

	out(os.Stderr, "Request wallet access from %s? [y/N]: ", cfg.Provider.URL)

	var response string
	if _, err := fmt.Fscanln(stdin, &response); err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
