package runtime

import (
	"fmt"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// validationError is an error that occurs during validation.
type validationError struct {
	Result *gojsonschema.Result
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s: request does not match schema", ErrValidationFailed)
}

func (e *validationError) Unwrap() error {
	return ErrValidationFailed
}

// Details returns the descriptions of all schema violations.
func (e *validationError) Details() []string {
	if e.Result == nil {
		return nil
	}

	details := make([]string, 0, len(e.Result.Errors()))
	for _, err := range e.Result.Errors() {
		details = append(details, err.String())
	}

	return details
}

// validate validates the request against the request schema.
func (h *RuntimeHandler) validate(req models.Request) error {
	res, err := h.schema.Validate(req)
	if err != nil {
		h.log.Debug("validation failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if res.Valid() {
		return nil
	}

	verr := &validationError{Result: res}

	h.log.Debug("invalid request", zap.Strings("errors", verr.Details()))

	return verr
}
