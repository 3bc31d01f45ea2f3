package controllers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"go.uber.org/zap"
)

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) readFrame() (*wsFrame, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &wsFrame{}
	decodeErr := json.NewDecoder(r).Decode(req)
	// the next header starts right after this payload, so consume all of it.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, util.WrapErrorf(decodeErr, util.ErrBadParamInput, "malformed frame")
	}
	return req, nil
}

// HandleFrame reads one frame, applies it to its session and writes back the new scene.
// A non-nil error means the connection is unusable.
func (u *User) HandleFrame() error {
	req, err := u.readFrame()
	if err != nil {
		if util.ErrorCode(err) == util.ErrBadParamInput {
			return u.writeError(http.StatusBadRequest, err.Error())
		}
		u.conn.Close()
		return err
	}
	if req == nil {
		return nil
	}

	if err := validateStruct(req); err != nil {
		return u.writeError(http.StatusBadRequest, err.Error())
	}
	if !util.IsFinite(req.Camera...) {
		return u.writeError(http.StatusBadRequest, "camera must contain finite values")
	}

	snap, st, err := u.hub.sessionService.Update(req.SessionID, req.toSample())
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			u.hub.log.Error("websocket update", zap.String("session_id", req.SessionID), zap.Error(err))
			return u.writeError(status, util.MessageInternalServerError)
		}
		return u.writeError(status, err.Error())
	}
	return u.write(envelope{"data": newSceneResponse(snap, st)})
}

func (u *User) writeError(status int, message string) error {
	return u.write(envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": message,
	}})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub tracks the open websocket connections.
type Hub struct {
	mu             sync.RWMutex
	seq            uint
	users          map[uint]*User
	sessionService SessionService
	log            *zap.Logger
}

func NewHub(sessionService SessionService, log *zap.Logger) *Hub {
	return &Hub{
		users:          make(map[uint]*User),
		sessionService: sessionService,
		log:            log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	return h.register(conn)
}

func (h *Hub) register(conn io.ReadWriteCloser) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.users[user.id] = user
	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	_, ok := h.users[user.id]
	delete(h.users, user.id)
	h.mu.Unlock()

	if ok {
		user.conn.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

func (h *Hub) RemoveAllUser() {
	h.mu.Lock()
	users := h.users
	h.users = make(map[uint]*User)
	h.mu.Unlock()

	for _, user := range users {
		user.conn.Close()
	}
}
