package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/wizard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SetupCmd runs the interactive config wizard.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or update smoke-config.json interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("config")
		in := cmd.InOrStdin()
		var secret wizard.SecretReader
		if f, ok := in.(*os.File); ok {
			secret = wizard.TerminalSecretReader(f)
		}
		w := wizard.New(path, in, cmd.OutOrStdout(), secret)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		type result struct {
			outcome wizard.Outcome
			err     error
		}
		done := make(chan result, 1)
		go func() {
			outcome, _, err := w.Run()
			done <- result{outcome, err}
		}()

		select {
		case r := <-done:
			if r.err != nil {
				return r.err
			}
			common.LogDebug("setup finished", "outcome", r.outcome.String(), "config", path)
			return nil
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\n  Cancelled.")
			return wizard.ErrAbandoned
		}
	},
}
