package commands

import (
	"github.com/loykin/apismoke/pkg/smoke"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunCmd runs the smoke battery from explicit flags (or APISMOKE_* env vars).
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run smoke checks against the API and print a JSON report",
	Long: `Run issues the chat checks (conversation create + stream) and, in full mode,
the lookup, tag and user checks. The report goes to stdout; the exit code is 0
whenever the report was produced, whatever the verdict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		opts := smoke.Options{
			APIKey:     v.GetString("api_key"),
			Slug:       v.GetString("slug"),
			Account:    v.GetString("account"),
			Message:    v.GetString("message"),
			Mode:       v.GetString("mode"),
			UserEmail:  v.GetString("user_email"),
			UserID:     v.GetString("user_id"),
			TagName:    v.GetString("tag_name"),
			InfoText:   v.GetString("info_text"),
			AllowWrite: v.GetBool("allow_write"),
		}
		applyTransport(v, &opts)
		return execute(cmd.Context(), cmd.OutOrStdout(), opts, v.GetString("format"))
	},
}
