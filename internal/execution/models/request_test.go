package models_test

import (
	"testing"

	"github.com/lambda-feedback/harbor-shim/internal/execution/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Args_OnlyTargetURL(t *testing.T) {
	req := models.Request{TargetURL: "https://example.com/repo.git"}

	assert.Equal(t, []string{"https://example.com/repo.git"}, req.Args())
}

func TestRequest_Args_WithRevision(t *testing.T) {
	req := models.Request{TargetURL: "u", Revision: "abc123"}

	assert.Equal(t, []string{"u", "abc123"}, req.Args())
}

func TestRequest_Args_EmptyRevisionIsAbsent(t *testing.T) {
	req := models.Request{TargetURL: "u", Revision: ""}

	assert.Equal(t, []string{"u"}, req.Args())
}

func TestRequest_Args_PassesValuesVerbatim(t *testing.T) {
	req := models.Request{TargetURL: "  u with spaces; rm -rf /", Revision: "--flag"}

	assert.Equal(t, []string{"  u with spaces; rm -rf /", "--flag"}, req.Args())
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected models.Request
	}{
		{
			name:     "flat target url",
			payload:  `{"targetUrl": "https://example.com/repo.git"}`,
			expected: models.Request{TargetURL: "https://example.com/repo.git"},
		},
		{
			name:     "flat target url and revision",
			payload:  `{"targetUrl": "u", "revision": "abc123"}`,
			expected: models.Request{TargetURL: "u", Revision: "abc123"},
		},
		{
			name:     "git commit alias",
			payload:  `{"targetUrl": "u", "gitCommit": "abc123"}`,
			expected: models.Request{TargetURL: "u", Revision: "abc123"},
		},
		{
			name:     "lambda event shape",
			payload:  `{"git-url": "u", "git-commit": "abc123"}`,
			expected: models.Request{TargetURL: "u", Revision: "abc123"},
		},
		{
			name:     "nested body object",
			payload:  `{"body": {"targetUrl": "u", "revision": "abc123"}}`,
			expected: models.Request{TargetURL: "u", Revision: "abc123"},
		},
		{
			name:     "nested body string",
			payload:  `{"body": "{\"gitUrl\": \"u\", \"gitCommit\": \"abc123\"}"}`,
			expected: models.Request{TargetURL: "u", Revision: "abc123"},
		},
		{
			name:     "top level wins over body",
			payload:  `{"targetUrl": "top", "body": {"targetUrl": "nested"}}`,
			expected: models.Request{TargetURL: "top"},
		},
		{
			name:     "null revision",
			payload:  `{"targetUrl": "u", "revision": null}`,
			expected: models.Request{TargetURL: "u"},
		},
		{
			name:     "missing target url",
			payload:  `{"revision": "abc123"}`,
			expected: models.Request{Revision: "abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := models.ParseRequest([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestParseRequest_NestedBodyArgs(t *testing.T) {
	req, err := models.ParseRequest([]byte(`{"body": {"targetUrl": "u", "revision": "abc123"}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"u", "abc123"}, req.Args())
}

func TestParseRequest_Fails(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `not json`},
		{name: "array", payload: `["u"]`},
		{name: "non string url", payload: `{"targetUrl": 42}`},
		{name: "non string revision", payload: `{"targetUrl": "u", "revision": true}`},
		{name: "invalid body", payload: `{"body": 42}`},
		{name: "invalid body string", payload: `{"body": "not json"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.ParseRequest([]byte(tt.payload))
			assert.ErrorIs(t, err, models.ErrInvalidPayload)
		})
	}
}
