package cmd

import (
	"fmt"
	"os"

	"class-notifier/cmd/classnotifier-cli/cmd/notify"
	"class-notifier/cmd/classnotifier-cli/cmd/users"
	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/internal/components/chrono"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/config"
	"class-notifier/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "classnotifier-cli",
	Short: "classnotifier-cli runs the class notifier pipeline by hand, outside of its schedule.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := telemetry.InitSlog(verbose, "")
		if err != nil {
			return err
		}

		var cfg config.Config
		if cmd.Flags().Changed("config") {
			cfg, err = config.Read(configPath)
		} else {
			cfg, err = config.Find()
		}
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			return err
		}

		value := &globals.Value{
			Config: cfg,
			Clock:  clock,
			Tel:    telemetry.SlogAPI{},
		}
		cmd.SetContext(globals.Set(cmd.Context(), value))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return globals.Get(cmd.Context()).Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.FileName, "Path to the config file, searched for upwards from the working directory when unset.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")

	rootCmd.AddCommand(notify.RootCmd)
	rootCmd.AddCommand(users.RootCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(serviceutil.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
