package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIClient sends requests to an in-process handler and keeps the session
// cookie between calls like a browser would.
type APIClient struct {
	t          *testing.T
	handler    http.Handler
	cookieName string
	cookies    map[string]*http.Cookie
	headers    map[string]string
}

// NewAPIClient creates a client. cookieName is the session cookie to track.
func NewAPIClient(t *testing.T, handler http.Handler, cookieName string) *APIClient {
	return &APIClient{
		t:          t,
		handler:    handler,
		cookieName: cookieName,
		cookies:    make(map[string]*http.Cookie),
		headers:    make(map[string]string),
	}
}

// SetHeader sends the header with every following request.
func (c *APIClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// Session returns the current session token, empty when logged out.
func (c *APIClient) Session() string {
	if cookie, ok := c.cookies[c.cookieName]; ok {
		return cookie.Value
	}
	return ""
}

// SetSession replaces the session token.
func (c *APIClient) SetSession(token string) {
	c.cookies[c.cookieName] = &http.Cookie{Name: c.cookieName, Value: token}
}

// Do sends body as JSON when non-nil and returns the recorded response.
func (c *APIClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(c.t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

// JSONAs parses the response body into T.
func JSONAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// AssertErrorResponse asserts the response is an error envelope with code.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Unexpected status code: %s", w.Body.String())
	resp := JSONAs[map[string]any](t, w)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
