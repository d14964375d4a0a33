package maps

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/catering-service/internal/apperrors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) roundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("  ")
	assert.ErrorIs(t, err, errAPIKeyRequired)
}

func TestClient_DrivingDistance(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return respond(http.StatusOK, `{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":20000,"text":"12.4 mi"}}]}]}`)(req)
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/api"), WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)

	meters, err := client.DrivingDistance(context.Background(), "3311 Regent Blvd, Irving TX 75063", "100 Main St, Dallas, TX 75201")
	require.NoError(t, err)
	assert.Equal(t, 20000.0, meters)

	require.NotNil(t, captured)
	assert.Equal(t, "/api/distancematrix/json", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, "test-key", q.Get("key"))
	assert.Equal(t, "3311 Regent Blvd, Irving TX 75063", q.Get("origins"))
	assert.Equal(t, "100 Main St, Dallas, TX 75201", q.Get("destinations"))
	assert.Equal(t, "driving", q.Get("mode"))
}

func TestClient_DrivingDistanceFailures(t *testing.T) {
	tests := []struct {
		name string
		rt   roundTripFunc
		code apperrors.Code
		msg  string
	}{
		{
			name: "transport error",
			rt:   func(*http.Request) (*http.Response, error) { return nil, errors.New("dial tcp: timeout") },
			code: apperrors.CodeDependency,
			msg:  "timeout",
		},
		{
			name: "http error",
			rt:   respond(http.StatusForbidden, "denied"),
			code: apperrors.CodeDependency,
			msg:  "status 403",
		},
		{
			name: "api status",
			rt:   respond(http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`),
			code: apperrors.CodeDependency,
			msg:  "REQUEST_DENIED",
		},
		{
			name: "no route",
			rt:   respond(http.StatusOK, `{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`),
			code: apperrors.CodeNotFound,
			msg:  "ZERO_RESULTS",
		},
		{
			name: "address not found",
			rt:   respond(http.StatusOK, `{"status":"OK","rows":[{"elements":[{"status":"NOT_FOUND"}]}]}`),
			code: apperrors.CodeNotFound,
			msg:  "NOT_FOUND",
		},
		{
			name: "invalid request",
			rt:   respond(http.StatusOK, `{"status":"INVALID_REQUEST"}`),
			code: apperrors.CodeNotFound,
			msg:  "not routable",
		},
		{
			name: "unknown element status",
			rt:   respond(http.StatusOK, `{"status":"OK","rows":[{"elements":[{"status":"UNKNOWN_ERROR"}]}]}`),
			code: apperrors.CodeDependency,
			msg:  "UNKNOWN_ERROR",
		},
		{
			name: "empty rows",
			rt:   respond(http.StatusOK, `{"status":"OK","rows":[]}`),
			code: apperrors.CodeDependency,
			msg:  "no elements",
		},
		{
			name: "bad json",
			rt:   respond(http.StatusOK, `{`),
			code: apperrors.CodeDependency,
			msg:  "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("k", WithHTTPClient(&http.Client{Transport: tt.rt}))
			require.NoError(t, err)

			_, err = client.DrivingDistance(context.Background(), "a", "b")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestClient_DrivingDistanceValidation(t *testing.T) {
	client, err := NewClient("k")
	require.NoError(t, err)
	_, err = client.DrivingDistance(context.Background(), "origin", " ")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	var nilClient *Client
	_, err = nilClient.DrivingDistance(context.Background(), "a", "b")
	assert.Equal(t, apperrors.CodeDependency, apperrors.CodeOf(err))
}
