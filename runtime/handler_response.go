package runtime

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/lambda-feedback/harbor-shim/internal/execution/supervisor"
)

var wellKnownErrors = []struct {
	err    error
	status int
}{
	{ErrInvalidMethod, http.StatusMethodNotAllowed},
	{models.ErrInvalidPayload, http.StatusBadRequest},
	{ErrValidationFailed, http.StatusUnprocessableEntity},
	{supervisor.ErrLaunchFailure, http.StatusInternalServerError},
	{supervisor.ErrNonZeroExit, http.StatusBadGateway},
}

// getErrorStatusCode returns the status code for the given error.
func getErrorStatusCode(err error) int {
	for _, known := range wellKnownErrors {
		if errors.Is(err, known.err) {
			return known.status
		}
	}

	return http.StatusInternalServerError
}

// newErrorResponse creates a new error response.
func newErrorResponse(err error) Response {
	statusCode := getErrorStatusCode(err)

	data := ErrorData{
		Message: err.Error(),
	}

	var validationErr *validationError
	if errors.As(err, &validationErr) {
		data.Details = validationErr.Details()
	}

	body, err := json.Marshal(ErrorResponse{Error: data})
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError}
	}

	return newResponse(statusCode, "application/json", body)
}

// newOutputResponse creates a response carrying the worker output.
func newOutputResponse(output []byte) Response {
	return newResponse(http.StatusOK, "text/plain; charset=utf-8", output)
}

// newResponse creates a new response.
func newResponse(status int, contentType string, body []byte) Response {
	header := make(http.Header)
	header.Add("Content-Type", contentType)

	return Response{
		StatusCode: status,
		Body:       body,
		Header:     header,
	}
}
