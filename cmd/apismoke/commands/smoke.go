package commands

import (
	"fmt"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SmokeCmd runs the battery from the config file written by setup.
var SmokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run smoke checks using smoke-config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		path := v.GetString("config")
		if !config.Exists(path) {
			return fmt.Errorf("%s not found: copy %s to %s and fill it in, or run `apismoke setup`",
				path, constants.ExampleConfigFile, path)
		}
		cfg, err := config.LoadWithEnv(path)
		if err != nil {
			return err
		}
		mode, _ := cmd.Flags().GetString("mode")
		if err := cfg.Validate(mode); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		opts := optionsFromConfig(cfg, mode)
		applyTransport(v, &opts)
		common.GetLogger().WithComponent("smoke").Info("running smoke checks",
			"config", path,
			"mode", opts.Mode,
			"command", common.MaskSensitiveData(commandLine(opts)),
		)
		return execute(cmd.Context(), cmd.OutOrStdout(), opts, v.GetString("format"))
	},
}
