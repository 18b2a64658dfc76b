package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/httpc"
	"github.com/loykin/apismoke/pkg/relay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "apirelay",
	Short:         "Serve the API reference page and relay /api/* to the upstream API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		level, ok := common.ParseLogLevel(v.GetString("log_level"))
		if !ok {
			return fmt.Errorf("unknown log level %q", v.GetString("log_level"))
		}
		logger, err := common.NewFormattedLogger(v.GetString("log_format"), level)
		if err != nil {
			return err
		}
		common.SetDefaultLogger(logger)

		r := relay.New(relay.Options{
			Upstream:  v.GetString("upstream"),
			StaticDir: v.GetString("dir"),
			Host:      v.GetString("host"),
			Port:      v.GetInt("port"),
			TLSConfig: httpc.TLSConfig(v.GetString("tls_min_version"), v.GetBool("insecure")),
			Logger:    logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, _ = fmt.Fprint(cmd.OutOrStdout(), r.Banner())
		if err := r.ListenAndServe(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\n  Stopped.")
		return nil
	},
}

func init() {
	v := viper.GetViper()
	v.SetDefault("port", constants.DefaultRelayPort)
	v.SetDefault("host", constants.DefaultRelayHost)
	v.SetDefault("dir", "./"+constants.DefaultStaticDir)
	v.SetDefault("upstream", constants.DefaultRelayUpstream)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "color")

	// Environment variables support: APIRELAY_PORT, APIRELAY_UPSTREAM, ...
	v.SetEnvPrefix("APIRELAY")
	v.AutomaticEnv()

	f := rootCmd.Flags()
	f.Int("port", v.GetInt("port"), "port to listen on")
	f.String("host", v.GetString("host"), "address to bind")
	f.String("dir", v.GetString("dir"), "directory served for non-API paths")
	f.String("upstream", v.GetString("upstream"), "upstream API root that /api/* maps to")
	f.String("log-level", v.GetString("log_level"), "log level: error, warn, info, debug")
	f.String("log-format", v.GetString("log_format"), "log format: color, text, json")
	f.String("tls-min-version", "", "minimum TLS version for upstream calls")
	f.Bool("insecure", false, "skip TLS certificate verification upstream")

	_ = v.BindPFlag("port", f.Lookup("port"))
	_ = v.BindPFlag("host", f.Lookup("host"))
	_ = v.BindPFlag("dir", f.Lookup("dir"))
	_ = v.BindPFlag("upstream", f.Lookup("upstream"))
	_ = v.BindPFlag("log_level", f.Lookup("log-level"))
	_ = v.BindPFlag("log_format", f.Lookup("log-format"))
	_ = v.BindPFlag("tls_min_version", f.Lookup("tls-min-version"))
	_ = v.BindPFlag("insecure", f.Lookup("insecure"))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		common.LogError("relay failed", err)
		os.Exit(1)
	}
}
