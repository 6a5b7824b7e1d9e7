package runtime

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/runtime/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrInvalidMethod    = errors.New("invalid method")
	ErrValidationFailed = errors.New("validation failed")
)

// HandlerParams defines the dependencies for the runtime handler.
type HandlerParams struct {
	fx.In

	Runtime Runtime

	Log *zap.Logger
}

// Handler is the interface for handling runtime requests.
type Handler interface {
	Handle(ctx context.Context, request Request) Response
}

// RuntimeHandler is a runtime handler that uses a runtime to handle requests.
type RuntimeHandler struct {
	runtime Runtime

	schema *schema.Schema

	log *zap.Logger
}

var _ Handler = (*RuntimeHandler)(nil)

// NewRuntimeHandler creates a new runtime handler.
func NewRuntimeHandler(params HandlerParams) (Handler, error) {
	requestSchema, err := schema.NewRequestSchema()
	if err != nil {
		return nil, err
	}

	return &RuntimeHandler{
		runtime: params.Runtime,
		schema:  requestSchema,
		log:     params.Log.Named("runtime_handler"),
	}, nil
}

// Handle handles a runtime request.
func (h *RuntimeHandler) Handle(ctx context.Context, req Request) Response {
	log := h.log.With(
		zap.String("path", req.Path),
		zap.String("method", req.Method),
	)

	if req.Method != http.MethodPost {
		log.Debug("invalid method")
		return newErrorResponse(ErrInvalidMethod)
	}

	// Extract the invocation request from the body
	invocation, err := models.ParseRequest(req.Body)
	if err != nil {
		log.Debug("failed to parse request", zap.Error(err))
		return newErrorResponse(err)
	}

	// Validate the invocation request against the request schema
	if err := h.validate(invocation); err != nil {
		return newErrorResponse(err)
	}

	log = log.With(zap.String("target_url", invocation.TargetURL))

	// Let the runtime handle the request
	result, err := h.runtime.Handle(ctx, invocation)
	if err != nil {
		log.Debug("failed to handle request", zap.Error(err))
		return h.newFailureResponse(ctx, err)
	}

	log.Debug("request handled", zap.String("invocation_id", result.InvocationID))

	return newOutputResponse(result.Output)
}

// newFailureResponse creates an error response for a failed invocation,
// reporting server-side failures to sentry.
func (h *RuntimeHandler) newFailureResponse(ctx context.Context, err error) Response {
	res := newErrorResponse(err)

	if res.StatusCode >= http.StatusInternalServerError {
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub()
		}

		hub.CaptureException(err)
	}

	return res
}
