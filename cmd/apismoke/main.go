package main

import (
	"context"

	"github.com/loykin/apismoke/cmd/apismoke/commands"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "apismoke",
	Short:         "Smoke-test the Delphi v3 API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Prepare(viper.GetViper())
	},
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", constants.DefaultConfigFile)
	v.SetDefault("env_file", ".env")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "color")
	v.SetDefault("format", "json")
	v.SetDefault("base_url", constants.DefaultAPIBaseURL)
	v.SetDefault("account", constants.DefaultAccount)
	v.SetDefault("message", constants.DefaultMessage)
	v.SetDefault("mode", constants.ModeChat)

	// Environment variables support: APISMOKE_API_KEY, APISMOKE_SLUG, ...
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", v.GetString("config"), "path to the smoke config written by setup")
	pf.String("env-file", v.GetString("env_file"), "dotenv file loaded before reading APISMOKE_* variables")
	pf.String("log-level", v.GetString("log_level"), "log level: error, warn, info, debug")
	pf.String("log-format", v.GetString("log_format"), "log format: color, text, json")
	pf.String("format", v.GetString("format"), "report format: json or yaml")
	pf.String("base-url", v.GetString("base_url"), "API base URL including the version segment")
	pf.String("tls-min-version", "", "minimum TLS version for API calls (e.g. 1.2, 1.3)")
	pf.Bool("insecure", false, "skip TLS certificate verification")

	rf := commands.RunCmd.Flags()
	rf.String("api-key", "", "API key sent as x-api-key (required)")
	rf.String("slug", "", "clone slug to chat with (required)")
	rf.String("account", v.GetString("account"), "account label echoed in the report")
	rf.String("message", v.GetString("message"), "message sent to the clone")
	rf.String("mode", v.GetString("mode"), "test mode: chat or full")
	rf.String("user-email", "", "email used for user lookup in full mode")
	rf.String("user-id", "", "user id for user checks; derived from the lookup when empty")
	rf.String("tag-name", "", "tag used by write checks")
	rf.String("info-text", "", "info note text used by write checks")
	rf.Bool("allow-write", false, "enable endpoints that create or change data")

	commands.SmokeCmd.Flags().String("mode", constants.ModeChat, "test mode: chat or full")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("env_file", pf.Lookup("env-file"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log_format", pf.Lookup("log-format"))
	_ = v.BindPFlag("format", pf.Lookup("format"))
	_ = v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = v.BindPFlag("tls_min_version", pf.Lookup("tls-min-version"))
	_ = v.BindPFlag("insecure", pf.Lookup("insecure"))
	_ = v.BindPFlag("api_key", rf.Lookup("api-key"))
	_ = v.BindPFlag("slug", rf.Lookup("slug"))
	_ = v.BindPFlag("account", rf.Lookup("account"))
	_ = v.BindPFlag("message", rf.Lookup("message"))
	_ = v.BindPFlag("mode", rf.Lookup("mode"))
	_ = v.BindPFlag("user_email", rf.Lookup("user-email"))
	_ = v.BindPFlag("user_id", rf.Lookup("user-id"))
	_ = v.BindPFlag("tag_name", rf.Lookup("tag-name"))
	_ = v.BindPFlag("info_text", rf.Lookup("info-text"))
	_ = v.BindPFlag("allow_write", rf.Lookup("allow-write"))

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.SmokeCmd)
	rootCmd.AddCommand(commands.SetupCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		exitHandler.LogFatalError(err, "command failed")
	}
}
