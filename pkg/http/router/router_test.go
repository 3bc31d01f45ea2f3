package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/http/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var origin = geo.NewCoordinate(-7.7956, 110.3695)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := driver.DefaultConfig()
	cfg.MaxSampleRate = 0
	ss := usecases.NewSessionService(zap.NewNop(), cfg, "")
	t.Cleanup(ss.Close)
	return NewAPI(zap.NewNop()).Handler(false, ss)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func identity() []float32 {
	return []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	north := origin.Destination(0, 50)
	rr := do(t, h, http.MethodPost, "/api/sessions", map[string]any{
		"route_id": "r1",
		"steps": []map[string]any{
			{"id": "s1", "lat": origin.Lat, "lon": origin.Lon, "instruction": "head north"},
			{"id": "s2", "lat": north.Lat, "lon": north.Lon, "instruction": "arrive"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

func TestSessionFlow(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	rr := do(t, h, http.MethodGet, "/api/sessions/"+id+"/scene", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/sessions/"+id+"/samples", map[string]any{
		"camera": identity(), "lat": origin.Lat, "lon": origin.Lon,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			Scene struct {
				ID    string `json:"id"`
				Steps []struct {
					WithinThreshold bool `json:"within_threshold"`
				} `json:"steps"`
				Segments []struct {
					Color string `json:"color"`
				} `json:"segments"`
			} `json:"scene"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.Data.Scene.ID)
	require.Len(t, resp.Data.Scene.Steps, 2)
	assert.True(t, resp.Data.Scene.Steps[0].WithinThreshold)
	assert.False(t, resp.Data.Scene.Steps[1].WithinThreshold)
	require.Len(t, resp.Data.Scene.Segments, 1)

	rr = do(t, h, http.MethodPost, "/api/sessions/"+id+"/color", map[string]any{"color": "#ff0000"})
	assert.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/sessions/"+id+"/scene", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "#ff0000", resp.Data.Scene.Segments[0].Color)

	rr = do(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, h, http.MethodGet, "/api/sessions/"+id+"/scene", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateSessionValidation(t *testing.T) {
	h := newTestHandler(t)

	testCases := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "missing route id", body: map[string]any{"polyline": "_p~iF~ps|U_ulLnnqC"}, wantStatus: http.StatusBadRequest},
		{name: "neither steps nor polyline", body: map[string]any{"route_id": "r"}, wantStatus: http.StatusBadRequest},
		{name: "latitude out of range", body: map[string]any{"route_id": "r", "steps": []map[string]any{{"id": "a", "lat": 91, "lon": 0}}}, wantStatus: http.StatusBadRequest},
		{name: "step without coordinates", body: map[string]any{"route_id": "r", "steps": []map[string]any{{"id": "a"}}}, wantStatus: http.StatusBadRequest},
		{name: "invalid polyline", body: map[string]any{"route_id": "r", "polyline": "_p~iF~ps|U_"}, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: map[string]any{"route_id": "r", "polyline": "_p~iF~ps|U_ulLnnqC", "x": 1}, wantStatus: http.StatusBadRequest},
		{name: "polyline", body: map[string]any{"route_id": "r", "polyline": "_p~iF~ps|U_ulLnnqC_mqNvxq`@"}, wantStatus: http.StatusCreated},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/sessions", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestPostSampleErrors(t *testing.T) {
	h := newTestHandler(t)
	id := createSession(t, h)

	testCases := []struct {
		name       string
		path       string
		body       any
		wantStatus int
	}{
		{name: "short camera", path: "/api/sessions/" + id + "/samples", body: map[string]any{"camera": []float32{1, 0}, "lat": 0, "lon": 0}, wantStatus: http.StatusBadRequest},
		{name: "missing lat", path: "/api/sessions/" + id + "/samples", body: map[string]any{"camera": identity(), "lon": 0}, wantStatus: http.StatusBadRequest},
		{name: "unknown session", path: "/api/sessions/nope/samples", body: map[string]any{"camera": identity(), "lat": 0, "lon": 0}, wantStatus: http.StatusNotFound},
		{name: "async", path: "/api/sessions/" + id + "/samples?async=true", body: map[string]any{"camera": identity(), "lat": origin.Lat, "lon": origin.Lon}, wantStatus: http.StatusAccepted},
		{name: "bad color", path: "/api/sessions/" + id + "/color", body: map[string]any{"color": "red"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestMiddlewares(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ".", rr.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("route_id=r"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestRealIP(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "10.0.0.1"}, want: "10.0.0.1"},
		{name: "x-forwarded-for", headers: map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, want: "10.0.0.2"},
		{name: "garbage", headers: map[string]string{"X-Real-IP": "nope"}, want: "192.0.2.1:1234"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = r.RemoteAddr }))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
