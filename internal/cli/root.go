package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apartment-search/internal/config"
)

type VersionInfo struct {
	Version string
	Commit  string
}

// app carries state shared by subcommands once flags are parsed.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "apartment-search",
		Short:         "Apartment search API",
		Long:          "A read-only search service over apartment listings, backed by a SQL database with a built-in sample data fallback.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(
		newServeCommand(a),
		newSearchCommand(a),
		newConfigCommand(),
	)
	return cmd
}
