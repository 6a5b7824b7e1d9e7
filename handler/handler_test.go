package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lambda-feedback/harbor-shim/config"
	"github.com/lambda-feedback/harbor-shim/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

// --- Mock handler ---
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, req runtime.Request) runtime.Response {
	args := m.Called(ctx, req)
	return args.Get(0).(runtime.Response)
}

func newCommandHandler(t *testing.T, h runtime.Handler, key string) *CommandHandler {
	return NewCommandHandler(CommandHandlerParams{
		Handler: h,
		Config: config.Config{
			LogLevel: "debug",
			Auth:     config.AuthConfig{Key: key},
		},
		Log: zaptest.NewLogger(t),
	})
}

// --- Test ---
func TestServeHTTP_Success(t *testing.T) {
	mockHandler := new(MockHandler)

	reqBody := []byte(`{"targetUrl":"u"}`)
	req := httptest.NewRequest(http.MethodPost, "/invoke", bytes.NewReader(reqBody))
	req.Header.Set("api-key", "secret")

	w := httptest.NewRecorder()

	expectedResponse := runtime.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:       []byte("report"),
	}

	mockHandler.On("Handle", mock.Anything, mock.MatchedBy(func(r runtime.Request) bool {
		return r.Path == "/invoke" &&
			r.Method == http.MethodPost &&
			bytes.Equal(r.Body, reqBody)
	})).Return(expectedResponse)

	handler := newCommandHandler(t, mockHandler, "secret")

	handler.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Equal(t, "report", string(body))
	mockHandler.AssertExpectations(t)
}

func TestServeHTTP_NoAuthConfigured(t *testing.T) {
	mockHandler := new(MockHandler)
	mockHandler.On("Handle", mock.Anything, mock.Anything).Return(runtime.Response{
		StatusCode: http.StatusBadGateway,
		Body:       []byte(`{"error":{"message":"process exited with non-zero status code 1"}}`),
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"targetUrl":"u"}`)))
	w := httptest.NewRecorder()

	newCommandHandler(t, mockHandler, "").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	mockHandler.AssertExpectations(t)
}

func TestServeHTTP_Unauthorized(t *testing.T) {
	mockHandler := new(MockHandler)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"targetUrl":"u"}`)))
	req.Header.Set("api-key", "wrong-key") // wrong key

	w := httptest.NewRecorder()

	handler := newCommandHandler(t, mockHandler, "Secret")

	handler.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, string(body), "unauthorized")

	// Ensure handler was not called
	mockHandler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()

	HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_InvalidMethod(t *testing.T) {
	w := httptest.NewRecorder()

	HealthHandler(w, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
