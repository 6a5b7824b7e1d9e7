package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lambda-feedback/harbor-shim/config"
	"github.com/lambda-feedback/harbor-shim/internal/shell"
	"github.com/lambda-feedback/harbor-shim/util/conf"
	"github.com/lambda-feedback/harbor-shim/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// cliMap maps cli flags to their config keys
var cliMap = map[string]string{
	"command":     "runtime.command",
	"cwd":         "runtime.cwd",
	"streams":     "runtime.streams",
	"max-workers": "runtime.max_workers",
	"api-key":     "auth.key",
	// applied separately, as KEY=VALUE pairs
	"env": "",
	// not part of the config
	"config": "",
}

var (
	appName  = "harbor-shim"
	appUsage = `A shim for invoking the harbor repository checker
on serverless platforms and as a standalone http service.`
	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Args:            true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a .json, .yaml or .env file.",
				EnvVars: []string{"CONFIG_FILE"},
			},
			// worker flags
			&cli.StringFlag{
				Name:     "command",
				Usage:    "the path of the worker binary.",
				Aliases:  []string{"c"},
				Category: "worker",
				EnvVars:  []string{"WORKER_COMMAND"},
			},
			&cli.StringFlag{
				Name:     "cwd",
				Usage:    "the working directory of the worker process.",
				Category: "worker",
				EnvVars:  []string{"WORKER_CWD"},
			},
			&cli.StringSliceFlag{
				Name:     "env",
				Usage:    "additional environment variables for the worker process, as KEY=VALUE.",
				Aliases:  []string{"e"},
				Category: "worker",
			},
			&cli.StringFlag{
				Name:     "streams",
				Usage:    "the stream policy of the worker process. Options: capture, inherit.",
				Aliases:  []string{"s"},
				Category: "worker",
				EnvVars:  []string{"WORKER_STREAMS"},
			},
			&cli.IntFlag{
				Name:     "max-workers",
				Usage:    "the maximum number of concurrent worker processes. 0 disables the limit.",
				Aliases:  []string{"n"},
				Category: "worker",
				EnvVars:  []string{"WORKER_MAX_WORKERS"},
			},
			// auth flags
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "the api key http clients must send in the api-key header.",
				Category: "auth",
				EnvVars:  []string{"AUTH_KEY"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:      ctx,
				CliMap:   cliMap,
				Defaults: config.DefaultConfig,
				FileName: ctx.Path("config"),
				Log:      log,
			})
			if err != nil {
				return err
			}

			// apply worker environment flags
			env, err := parseEnvFlags(ctx.StringSlice("env"))
			if err != nil {
				return err
			}

			cfg.Runtime.Supervisor.StartParams.Env = mergeEnv(
				cfg.Runtime.Supervisor.StartParams.Env,
				env,
			)

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			log.Sync()

			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

func Execute(params ExecuteParams) {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return
	}

	// the shell already logged the cause of its exit code
	if !shell.IsExitError(err) {
		fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())
	}

	// exit with the exit code carried by the error, or 1
	os.Exit(shell.ExitCode(err))
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
