package controllers

import (
	"bytes"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wsReply struct {
	Data *struct {
		Scene struct {
			ID string `json:"id"`
		} `json:"scene"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// roundTrip sends one client frame and returns the server reply.
func roundTrip(t *testing.T, user *User, client net.Conn, payload []byte) wsReply {
	t.Helper()

	errc := make(chan error, 1)
	go func() { errc <- user.HandleFrame() }()

	require.NoError(t, client.SetDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, wsutil.WriteClientText(client, payload))
	msg, err := wsutil.ReadServerText(client)
	require.NoError(t, err)
	require.NoError(t, <-errc)

	var reply wsReply
	require.NoError(t, json.Unmarshal(msg, &reply))
	return reply
}

func TestHubHandleFrame(t *testing.T) {
	cfg := driver.DefaultConfig()
	cfg.MaxSampleRate = 0
	ss := usecases.NewSessionService(zap.NewNop(), cfg, "")
	defer ss.Close()

	origin := geo.NewCoordinate(-7.7956, 110.3695)
	id, err := ss.Create(route.NewRoute("r1", []route.Step{
		route.NewStep("s1", origin, ""),
		route.NewStep("s2", origin.Destination(0, 50), ""),
	}))
	require.NoError(t, err)

	hub := NewHub(ss, zap.NewNop())
	server, client := net.Pipe()
	defer client.Close()
	user := hub.Register(server)
	assert.Equal(t, 1, hub.Len())

	camera := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

	testCases := []struct {
		name      string
		frame     any
		wantError string
	}{
		{
			name:  "valid frame",
			frame: map[string]any{"session_id": id, "camera": camera, "lat": origin.Lat, "lon": origin.Lon},
		},
		{
			name:      "unknown session",
			frame:     map[string]any{"session_id": "6f1c7a52-3b7e-4f7e-9a8e-4f3f2a1b0c9d", "camera": camera, "lat": 0, "lon": 0},
			wantError: "Not Found",
		},
		{
			name:      "invalid camera",
			frame:     map[string]any{"session_id": id, "camera": camera[:3], "lat": 0, "lon": 0},
			wantError: "Bad Request",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(tt.frame)
			require.NoError(t, err)

			reply := roundTrip(t, user, client, payload)
			if tt.wantError == "" {
				require.NotNil(t, reply.Data)
				assert.Equal(t, "r1", reply.Data.Scene.ID)
				return
			}
			require.NotNil(t, reply.Error)
			assert.Equal(t, tt.wantError, reply.Error.Code)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		reply := roundTrip(t, user, client, []byte("{"))
		require.NotNil(t, reply.Error)
		assert.Equal(t, "Bad Request", reply.Error.Code)
	})

	t.Run("large malformed frame then a valid one", func(t *testing.T) {
		garbage := append([]byte("x"), bytes.Repeat([]byte(" "), 4000)...)
		reply := roundTrip(t, user, client, garbage)
		require.NotNil(t, reply.Error)
		assert.Equal(t, "Bad Request", reply.Error.Code)

		payload, err := json.Marshal(map[string]any{"session_id": id, "camera": camera, "lat": origin.Lat, "lon": origin.Lon})
		require.NoError(t, err)
		reply = roundTrip(t, user, client, payload)
		require.NotNil(t, reply.Data)
		assert.Equal(t, "r1", reply.Data.Scene.ID)
	})

	hub.RemoveAllUser()
	assert.Equal(t, 0, hub.Len())
}
