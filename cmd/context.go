package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexthemitchell/rad.io/internal/app"
)

// newAppContext builds the application context from the persistent
// flags. Subcommand-specific fields are filled in by the caller.
func newAppContext() *app.Context {
	return &app.Context{
		ConfigFile:   configFile,
		ProfileFile:  profileFile,
		OutputFile:   outputFile,
		OutputFormat: outputFormat,
		Verbose:      verbose,
		Quiet:        quiet,
	}
}

// setIfChanged pushes an explicitly set flag value into viper under its
// configuration key, so flags override the config file and profile.
func setIfChanged(cmd *cobra.Command, flag, key string, value any) {
	if cmd.Flags().Changed(flag) {
		viper.Set(key, value)
	}
}
