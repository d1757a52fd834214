package main

import (
	"os"

	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	zero.Logger = zero.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var configFile string
	root := &cobra.Command{
		Use:          "filecat",
		Short:        "File service keeping a blob store and a metadata catalog consistent",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional configuration file; environment variables take precedence")

	serve := NewServeCommand(&configFile)
	root.AddCommand(serve, NewMigrateCommand(&configFile), NewSweepCommand(&configFile))
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		zero.Error().Err(err).Send()
		os.Exit(1)
	}
}
