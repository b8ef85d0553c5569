package cmd

import (
	"fmt"
	"runtime"

	"get.pme.sh/atomix/config"
	"get.pme.sh/atomix/revision"
	"get.pme.sh/atomix/ui"
	"get.pme.sh/atomix/xlog"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

func refGroup(id, name string) string {
	if !config.RootCommand.ContainsGroup(id) {
		config.RootCommand.AddGroup(&cobra.Group{
			ID:    id,
			Title: name + ":",
		})
	}
	return id
}

func setupLogging(*cobra.Command, []string) error {
	if *config.Verbose {
		xlog.SetLoggerLevel(xlog.LevelDebug)
	} else {
		xlog.SetLoggerLevel(xlog.LevelInfo)
	}
	if *config.LogFile != "" {
		w, err := xlog.FileWriter(*config.LogFile)
		if err != nil {
			return err
		}
		if w != nil {
			xlog.SetDefaultOutput(xlog.StderrWriter(), w)
		}
	}
	return nil
}

func init() {
	config.RootCommand.PersistentPreRunE = setupLogging
	config.RootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Run: func(*cobra.Command, []string) {
			b := revision.Self()
			fmt.Println(ui.RenderSummary("Version",
				ui.Pair{Key: "version", Value: b.String()},
				ui.Pair{Key: "module", Value: b.Module},
				ui.Pair{Key: "go", Value: b.GoVersion},
			))
		},
	})
}

func Execute() {
	if runtime.GOMAXPROCS(0) > 32 {
		runtime.GOMAXPROCS(32)
	}
	maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		xlog.Debug().Msgf(format, args...)
	}))
	config.RootCommand.Short += ui.FaintStyle.Render(" (" + revision.GetVersion() + ")")
	if err := config.RootCommand.Execute(); err != nil {
		if *config.Verbose {
			xlog.ErrStack(err).Msg("Command failed")
		}
		ui.ExitWithError(err)
	}
}
