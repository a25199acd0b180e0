package main

import (
	"fmt"
	"os"

	"autoragdoll/internal/config"
	"autoragdoll/internal/logging"
	"autoragdoll/internal/physics"
	"autoragdoll/internal/ragdoll"
	"autoragdoll/internal/scenefile"
	"autoragdoll/internal/viewer"
	"autoragdoll/internal/watch"

	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("ragdollview", pflag.ExitOnError)
	input := fs.StringP("input", "i", "", "input scene (YAML)")
	mode := fs.StringP("mode", "m", "simple", "ragdoll to build: simple or remeshed")
	configDir := fs.String("config", ".", "directory holding autoragdoll.yaml")
	watchInput := fs.BoolP("watch", "w", true, "rebuild when the input changes")
	selection := fs.StringSliceP("select", "s", nil, "objects to select instead of the file's selection; the first becomes active")
	prefsPath := fs.String("prefs", viewer.PrefsFile, "file keeping camera and window state (empty disables)")
	config.AddFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: ragdollview --input scene.yaml [--mode simple|remeshed]")
		os.Exit(2)
	}

	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(settings.LogLevel, os.Stderr, nil)

	op, err := ragdoll.NewOperator(*mode, settings)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid mode")
	}

	build := func() (*ragdoll.Context, error) {
		scene, err := scenefile.LoadScene(*input)
		if err != nil {
			return nil, err
		}
		if len(*selection) > 0 {
			if err := scenefile.Select(scene, *selection, (*selection)[0]); err != nil {
				return nil, err
			}
		}
		ctx := ragdoll.NewContext(scene, physics.NewPhysicsWorld(), settings, log)
		if _, err := op.Execute(ctx); err != nil {
			return nil, err
		}
		return ctx, nil
	}

	v := viewer.New("autoragdoll - "+*input, build, log)
	v.Input = *input
	v.PrefsPath = *prefsPath
	if *prefsPath != "" {
		prefs, err := viewer.LoadPrefs(*prefsPath)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring viewer prefs")
		}
		// Camera state only carries over for the same input
		if prefs != nil && prefs.InputPath == *input {
			v.Prefs = prefs
		}
	}
	if *watchInput {
		w, err := watch.NewWatcher(*input)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to watch input")
		}
		defer w.Close()
		v.Changes = w.Events
	}
	v.Run()
}
