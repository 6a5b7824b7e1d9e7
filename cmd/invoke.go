package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/lambda-feedback/harbor-shim/config"
	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"github.com/lambda-feedback/harbor-shim/internal/shell"
	"github.com/lambda-feedback/harbor-shim/runtime"
	"github.com/lambda-feedback/harbor-shim/util/conf"
	"github.com/lambda-feedback/harbor-shim/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	invokeCmdDescription = `The invoke command launches the worker binary once, with the
given repository url and optional revision, and prints its
output to stdout.

If the worker exits with a non-zero status code, the command
exits with the same status code.`
	invokeCmd = &cli.Command{
		Name:        "invoke",
		Usage:       "Invoke the worker binary once.",
		ArgsUsage:   "<targetUrl> [<revision>]",
		Description: invokeCmdDescription,
		Action:      invokeAction,
	}
)

func invokeAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	req, err := requestFromArgs(ctx.Args())
	if err != nil {
		_ = cli.ShowSubcommandHelp(ctx)
		return err
	}

	rt, err := runtime.NewRuntime(runtime.RuntimeParams{
		Config: cfg.Runtime,
		Log:    log,
	})
	if err != nil {
		return err
	}

	if err := rt.Start(ctx.Context); err != nil {
		return err
	}

	defer rt.Shutdown(ctx.Context)

	res, err := rt.Handle(ctx.Context, req)
	if err != nil {
		log.Error("invocation failed", zap.Error(err))
		return shell.NewExitError(invokeExitCode(err))
	}

	if _, err := os.Stdout.Write(res.Output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func requestFromArgs(args cli.Args) (models.Request, error) {
	if args.Len() < 1 || args.Len() > 2 || args.First() == "" {
		return models.Request{}, errors.New("expected <targetUrl> [<revision>]")
	}

	return models.Request{
		TargetURL: args.Get(0),
		Revision:  args.Get(1),
	}, nil
}

// invokeExitCode returns the exit code of the worker, or 1.
func invokeExitCode(err error) int {
	var exitErr *supervisor.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}

	return 1
}

func init() {
	rootApp.Commands = append(rootApp.Commands, invokeCmd)
}
