package usecases

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/scene"
	"github.com/lintang-b-s/navigatorx-ar/pkg/trace"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = util.WrapErrorf(nil, util.ErrNotFound, "session not found")
)

type session struct {
	driver   *driver.Driver
	cancel   context.CancelFunc
	done     chan struct{}
	recorder SampleRecorder
}

// SessionService keeps one scene driver per navigating client.
type SessionService struct {
	log      *zap.Logger
	cfg      driver.Config
	traceDir string

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService. traceDir may be empty; otherwise every sample is recorded
// to <traceDir>/<session id>.trace.bz2.
func NewSessionService(log *zap.Logger, cfg driver.Config, traceDir string) *SessionService {
	return &SessionService{
		log:      log,
		cfg:      cfg,
		traceDir: traceDir,
		sessions: make(map[string]*session),
	}
}

func (ss *SessionService) Create(r route.Route) (string, error) {
	d := driver.NewDriver(ss.cfg, ss.log)
	if err := d.SetRoute(r); err != nil {
		return "", err
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		driver: d,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if ss.traceDir != "" {
		rec, err := trace.Create(filepath.Join(ss.traceDir, id+".trace.bz2"))
		if err != nil {
			cancel()
			return "", util.WrapErrorf(err, util.ErrInternalServerError, "create trace for session %s", id)
		}
		sess.recorder = rec
	}

	go func() {
		defer close(sess.done)
		if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			ss.log.Error("session driver stopped", zap.String("session_id", id), zap.Error(err))
		}
	}()

	ss.mu.Lock()
	ss.sessions[id] = sess
	ss.mu.Unlock()

	ss.log.Info("session created", zap.String("session_id", id), zap.String("route_id", r.ID))
	return id, nil
}

func (ss *SessionService) CreateFromPolyline(routeID, polyline string) (string, error) {
	r, err := route.FromPolyline(routeID, polyline)
	if err != nil {
		return "", err
	}
	return ss.Create(r)
}

func (ss *SessionService) get(id string) (*session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	sess, ok := ss.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (ss *SessionService) Get(id string) (*driver.Driver, error) {
	sess, err := ss.get(id)
	if err != nil {
		return nil, err
	}
	return sess.driver, nil
}

func (ss *SessionService) Delete(id string) error {
	ss.mu.Lock()
	sess, ok := ss.sessions[id]
	if ok {
		delete(ss.sessions, id)
	}
	ss.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	ss.stop(id, sess)
	ss.log.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (ss *SessionService) stop(id string, sess *session) {
	sess.cancel()
	<-sess.done
	sess.driver.ClearRoute()
	if sess.recorder != nil {
		if err := sess.recorder.Close(); err != nil {
			ss.log.Error("close session trace", zap.String("session_id", id), zap.Error(err))
		}
	}
}

// Close stops every session.
func (ss *SessionService) Close() {
	ss.mu.Lock()
	sessions := ss.sessions
	ss.sessions = make(map[string]*session)
	ss.mu.Unlock()

	for id, sess := range sessions {
		ss.stop(id, sess)
	}
}

func (ss *SessionService) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

func (ss *SessionService) record(id string, sess *session, s driver.Sample) {
	if sess.recorder == nil {
		return
	}
	if err := sess.recorder.Record(s); err != nil {
		ss.log.Warn("record sample", zap.String("session_id", id), zap.Error(err))
	}
}

// Update applies s synchronously and returns the resulting snapshot.
func (ss *SessionService) Update(id string, s driver.Sample) (scene.RouteSnapshot, driver.Status, error) {
	sess, err := ss.get(id)
	if err != nil {
		return scene.RouteSnapshot{}, driver.Status{}, err
	}
	ss.record(id, sess, s)

	if _, err := sess.driver.Update(s); err != nil {
		return scene.RouteSnapshot{}, driver.Status{}, err
	}
	return sess.driver.Snapshot()
}

// Submit queues s for the session's background loop. only the latest pending sample is kept.
func (ss *SessionService) Submit(id string, s driver.Sample) error {
	sess, err := ss.get(id)
	if err != nil {
		return err
	}
	ss.record(id, sess, s)
	sess.driver.Submit(s)
	return nil
}

func (ss *SessionService) ApplyColor(id, hex string) error {
	sess, err := ss.get(id)
	if err != nil {
		return err
	}
	c, err := driver.ParseColor(hex)
	if err != nil {
		return err
	}
	return sess.driver.ApplyColor(c)
}

func (ss *SessionService) Snapshot(id string) (scene.RouteSnapshot, driver.Status, error) {
	sess, err := ss.get(id)
	if err != nil {
		return scene.RouteSnapshot{}, driver.Status{}, err
	}
	return sess.driver.Snapshot()
}
