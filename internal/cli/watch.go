package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/session"
	walleterr "github.com/halverson/walletsync/pkg/errors"
)

// watchCmd follows the connection state until interrupted.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the wallet connection state",
	Long: `Restore the previous session, subscribe to wallet events, and print
every connection state change until interrupted.

How the watch ends decides what survives: SIGHUP keeps the reconnect
marker so the next run restores the session, while SIGINT and SIGTERM
end the session and clear it.

Example:
  walletsync watch
  walletsync watch -o json`,
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	dialCtx, dialCancel := contextWithTimeout(cmd, requestTimeout())
	deps, err := buildDeps(dialCtx)
	dialCancel()
	if err != nil {
		return err
	}
	defer deps.close()

	if deps.Provider == nil {
		return walleterr.ErrProviderNotFound
	}

	resumeCtx, resumeCancel := contextWithTimeout(cmd, requestTimeout())
	deps.resume(resumeCtx)
	resumeCancel()

	if err = deps.Bridge.Attach(); err != nil {
		return err
	}

	states, cancelWatch := deps.Store.Watch()
	defer cancelWatch()

	if err = printState(cmd, deps.Store.Snapshot()); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}

	for {
		select {
		case state, ok := <-states:
			if !ok {
				return nil
			}
			deps.recordSnapshot(state)
			if err = printState(cmd, state); err != nil {
				return err
			}
		case sig := <-signals:
			return endWatch(sig, deps)
		case <-base.Done():
			return endWatch(syscall.SIGTERM, deps)
		}
	}
}

// endWatch tears the session down according to how the watch ended. A
// reload keeps the reconnect marker; a close clears all session data.
func endWatch(sig os.Signal, deps *commandDeps) error {
	kind := session.SignalClassifier{}.Classify(sig)
	logger.Debug("watch ending: signal %v classified as %s", sig, kind)

	return session.End(kind, deps.Flag, deps.Scratch)
}
