package gatewaysvc

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/feedesk/core"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c, srv
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("localhost:5000")
	assert.Error(t, err)
}

func TestClient_Do(t *testing.T) {
	var gotAuth, gotPath, gotQuery, gotCT string
	var gotBody map[string]interface{}

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCT = r.Header.Get("Content-Type")
		data, _ := ioutil.ReadAll(r.Body)
		gotBody = nil
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"campuses":[{"_id":"c1","name":"North"}]}`))
	}, WithTokenSource(staticToken("from-source")))

	var out struct {
		Campuses []map[string]string `json:"campuses"`
	}
	err := c.Get(context.Background(), "/campus/list", nil, &out)
	assert.NoError(t, err)
	assert.Equal(t, "/api/campus/list", gotPath)
	assert.Equal(t, "Bearer from-source", gotAuth)
	assert.Empty(t, gotCT)
	assert.Equal(t, "North", out.Campuses[0]["name"])

	ctx := ContextWithToken(context.Background(), "from-ctx")
	err = c.Post(ctx, "campus/create", map[string]string{"name": "South"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer from-ctx", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "South", gotBody["name"])

	err = c.Get(context.Background(), "global/student-fees", url.Values{"studentId": {"s1"}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "studentId=s1", gotQuery)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
	})
	assert.NoError(t, c.Post(context.Background(), "/global/login", map[string]string{}, nil))
	assert.False(t, hasAuth)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantText    string
	}{
		{name: "message field", status: 400, body: `{"message":"Campus already exists"}`, wantMessage: "Campus already exists", wantText: "Campus already exists"},
		{name: "error field", status: 404, body: `{"error":"not found"}`, wantMessage: "not found", wantText: "not found"},
		{name: "no message", status: 500, body: `{}`, wantText: "Internal Server Error"},
		{name: "html body", status: 502, body: `<html>bad gateway</html>`, wantText: "Bad Gateway"},
		{name: "unauthorized", status: 401, body: `{"message":"jwt expired"}`, wantMessage: "jwt expired", wantText: "jwt expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Get(context.Background(), "/campus/list", nil, nil)
			apiErr, ok := core.AsAPIError(err)
			if assert.True(t, ok) {
				assert.Equal(t, tt.status, apiErr.Status)
				assert.Equal(t, tt.wantMessage, apiErr.Message)
				assert.Equal(t, tt.wantText, apiErr.Error())
			}
			assert.Equal(t, tt.status == http.StatusUnauthorized, core.IsUnauthorized(err))
		})
	}
}

func TestClient_NeverRetries(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	err := c.Post(context.Background(), "/campus/create", map[string]string{"name": "x"}, nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NetworkFailure(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := c.Get(context.Background(), "/campus/list", nil, nil)
	assert.True(t, core.IsNetworkFailure(err))
	_, isAPI := core.AsAPIError(err)
	assert.False(t, isAPI)
}

func TestClient_Cancellation(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "/campus/list", nil, nil)
	assert.Equal(t, context.DeadlineExceeded, errors.Cause(err))
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, WithMetrics(m))

	_ = c.Get(context.Background(), "/campus/list", nil, nil)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "404")))
}
