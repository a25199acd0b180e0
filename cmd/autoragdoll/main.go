package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"autoragdoll/internal/config"
	"autoragdoll/internal/logging"
	"autoragdoll/internal/physics"
	"autoragdoll/internal/ragdoll"
	"autoragdoll/internal/scenefile"
	"autoragdoll/internal/watch"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const usage = `Usage: autoragdoll simple|remeshed --input scene.yaml [--select names] [--out scene.json] [--watch]

Generates a ragdoll for the selected armature of an input scene.

Flags:
`

type options struct {
	command   string
	input     string
	out       string
	configDir string
	logFile   string
	watch     bool
	selection []string
}

func main() {
	fs := pflag.NewFlagSet("autoragdoll", pflag.ContinueOnError)
	var opts options
	fs.StringVarP(&opts.input, "input", "i", "", "input scene (YAML)")
	fs.StringVarP(&opts.out, "out", "o", "", "write the generated scene as JSON")
	fs.StringVar(&opts.configDir, "config", ".", "directory holding autoragdoll.yaml")
	fs.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "rebuild whenever the input changes")
	fs.StringSliceVarP(&opts.selection, "select", "s", nil, "objects to select instead of the file's selection; the first becomes active")
	config.AddFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if fs.NArg() != 1 || opts.input == "" {
		fs.Usage()
		os.Exit(2)
	}
	opts.command = fs.Arg(0)

	os.Exit(run(opts, fs))
}

func run(opts options, fs *pflag.FlagSet) int {
	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := config.Load(opts.configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	settings, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var file io.Writer
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		file = f
	}
	log := logging.New(settings.LogLevel, os.Stderr, file)

	op, err := ragdoll.NewOperator(opts.command, settings)
	if err != nil {
		log.Error().Err(err).Msg("invalid command")
		return 2
	}

	code := generate(opts, op, settings, log)
	if !opts.watch {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchInput(ctx, opts, op, settings, log); err != nil {
		log.Error().Err(err).Msg("watch failed")
		return 1
	}
	return 0
}

// generate loads the input, runs op and writes the result. The return value
// is the process exit code.
func generate(opts options, op ragdoll.Operator, settings config.Settings, log zerolog.Logger) int {
	scene, err := scenefile.LoadScene(opts.input)
	if err != nil {
		log.Error().Err(err).Msg("failed to load input")
		return 1
	}
	if len(opts.selection) > 0 {
		if err := scenefile.Select(scene, opts.selection, opts.selection[0]); err != nil {
			log.Error().Err(err).Msg("invalid selection")
			return 1
		}
	}
	world := physics.NewPhysicsWorld()
	ctx := ragdoll.NewContext(scene, world, settings, log)

	status, err := op.Execute(ctx)
	for _, rep := range ctx.Reports {
		fmt.Printf("%s: %s\n", rep.Level, rep.Message)
	}
	if err != nil {
		log.Error().Err(err).Str("command", opts.command).Msg("command failed")
		return 1
	}
	if status != ragdoll.StatusFinished {
		return 3
	}

	for _, r := range ctx.Ragdolls {
		fmt.Printf("%s ragdoll for %q: %d segments, %d joints\n", r.Mode, r.Armature.Name, len(r.Segments), len(r.Joints))
		for _, j := range r.Joints {
			fmt.Printf("  %s\n", j.Object.Name)
		}
	}

	if opts.out != "" {
		if err := scenefile.SaveScene(opts.out, scene, world); err != nil {
			log.Error().Err(err).Msg("failed to write output")
			return 1
		}
		log.Info().Str("file", opts.out).Msg("scene written")
	}
	return 0
}

func watchInput(ctx context.Context, opts options, op ragdoll.Operator, settings config.Settings, log zerolog.Logger) error {
	w, err := watch.NewWatcher(opts.input)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Info().Str("file", opts.input).Msg("watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info().Str("file", path).Msg("input changed")
			generate(opts, op, settings, log)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
