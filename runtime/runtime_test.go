package runtime_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
	"github.com/lambda-feedback/harbor-shim/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRuntime_Handle(t *testing.T) {
	tests := []struct {
		name       string
		maxWorkers int
	}{
		{"direct", 0},
		{"pooled", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := createRuntime(t, tt.maxWorkers, `printf '%s,' "$@"`)

			res, err := rt.Handle(context.Background(), models.Request{TargetURL: "u", Revision: "abc123"})
			require.NoError(t, err)

			assert.Equal(t, "u,abc123,", string(res.Output))
		})
	}
}

func TestRuntime_Handle_NonZeroExit(t *testing.T) {
	rt := createRuntime(t, 0, "exit 4")

	_, err := rt.Handle(context.Background(), models.Request{TargetURL: "u"})

	var exitErr *supervisor.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 4, exitErr.ExitCode())
}

func createRuntime(t *testing.T, maxWorkers int, script string) runtime.Runtime {
	path := filepath.Join(t.TempDir(), "harbor")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	rt, err := runtime.NewRuntime(runtime.RuntimeParams{
		Config: runtime.Config{
			MaxWorkers: maxWorkers,
			Supervisor: supervisor.Config{
				StartParams: supervisor.StartConfig{Cmd: path},
			},
		},
		Log: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	require.NoError(t, rt.Start(context.Background()))

	t.Cleanup(func() {
		assert.NoError(t, rt.Shutdown(context.Background()))
	})

	return rt
}
