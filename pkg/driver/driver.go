package driver

import (
	"context"
	"image/color"
	"math"
	"sync"
	"time"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/scene"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrNoActiveRoute = util.WrapErrorf(nil, util.ErrConflict, "no active route")
	ErrSampleDropped = util.WrapErrorf(nil, util.ErrConflict, "sample dropped by rate limiter")
	ErrNotUpdated    = util.WrapErrorf(nil, util.ErrConflict, "route has not been updated yet")
)

// Sample is one tracking frame paired with a location fix.
type Sample struct {
	Camera     math32.Matrix4 `json:"camera"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Time       time.Time      `json:"time"`
}

func NewSample(camera math32.Matrix4, coord geo.Coordinate, t time.Time) Sample {
	return Sample{Camera: camera, Coordinate: coord, Time: t}
}

type Status struct {
	RouteID  string            `json:"route_id"`
	Updates  uint64            `json:"updates"`
	Progress guidance.Progress `json:"progress"`
	// StepsInRange lists the indices of steps within the proximity threshold.
	StepsInRange []int     `json:"steps_in_range"`
	SampledAt    time.Time `json:"sampled_at"`
}

// Driver feeds samples into the active route tree. All methods are safe for
// concurrent use.
type Driver struct {
	log     *zap.Logger
	cfg     Config
	limiter *rate.Limiter

	mu      sync.Mutex
	scene   *scene.Scene
	active  *scene.RouteNode
	tracker *guidance.Tracker
	status  Status
	// override is an explicit color set through ApplyColor; it wins over the palette.
	override *color.RGBA

	mailbox chan Sample
}

func NewDriver(cfg Config, log *zap.Logger) *Driver {
	limit := rate.Inf
	if cfg.MaxSampleRate > 0 {
		limit = rate.Limit(cfg.MaxSampleRate)
	}
	return &Driver{
		log:     log,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		scene:   scene.NewScene(),
		mailbox: make(chan Sample, 1),
	}
}

func (d *Driver) Scene() *scene.Scene {
	return d.scene
}

func (d *Driver) Config() Config {
	return d.cfg
}

// SetRoute replaces the active route. The previous tree is discarded.
func (d *Driver) SetRoute(r route.Route) error {
	if err := route.Validate(r); err != nil {
		return err
	}

	rn := scene.NewRouteNode(r.ID, r.Steps, scene.WithSegmentRadius(d.cfg.SegmentRadius))
	tracker := guidance.NewTracker(r, d.cfg.OffRouteDistance, d.log)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		d.active.Discard()
	}
	d.scene.AddChild(rn)
	d.active = rn
	d.tracker = tracker
	d.status = Status{RouteID: r.ID}
	d.override = nil

	d.log.Info("route set", zap.String("route_id", r.ID), zap.Int("steps", len(r.Steps)),
		zap.Float64("length_meters", r.Length()))
	return nil
}

func (d *Driver) ClearRoute() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return
	}
	d.log.Info("route cleared", zap.String("route_id", d.active.SourceID()))
	d.active.Discard()
	d.active = nil
	d.tracker = nil
	d.status = Status{}
	d.override = nil
}

func (d *Driver) HasRoute() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active != nil
}

// Update applies one sample to the active route and returns the new status.
func (d *Driver) Update(s Sample) (Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return Status{}, ErrNoActiveRoute
	}
	if !util.IsFinite(s.Coordinate.Lat, s.Coordinate.Lon) || !finiteMatrix(s.Camera) {
		return Status{}, util.WrapErrorf(nil, util.ErrBadParamInput, "sample contains non-finite values")
	}
	if !d.limiter.Allow() {
		return Status{}, ErrSampleDropped
	}

	d.active.UpdateWith(s.Camera, s.Coordinate, d.cfg.ThresholdDistance)

	progress := d.tracker.Progress(s.Coordinate)
	inRange := make([]int, 0, 2)
	for i, sn := range d.active.Steps() {
		if sn.IsWithinThreshold() {
			inRange = append(inRange, i)
		}
	}

	d.applyPalette(progress.OffRoute)

	prev := d.status.Progress.OffRoute
	d.status = Status{
		RouteID:      d.active.SourceID(),
		Updates:      d.active.Updates(),
		Progress:     progress,
		StepsInRange: inRange,
		SampledAt:    s.Time,
	}
	if d.status.Updates > 1 && prev != progress.OffRoute {
		d.log.Info("route status changed", zap.String("route_id", d.status.RouteID),
			zap.Bool("off_route", progress.OffRoute), zap.Float64("distance_to_route", progress.DistanceToRoute))
	}
	return d.status, nil
}

// applyPalette colors the tree. fresh segments come out of UpdateWith with the
// default color, so it runs after every update.
func (d *Driver) applyPalette(offRoute bool) {
	switch {
	case d.override != nil:
		d.active.ApplyColor(*d.override)
	case offRoute:
		d.active.ApplyColor(d.cfg.OffRouteColor)
	default:
		d.active.ApplyColor(d.cfg.OnRouteColor)
	}
}

// ApplyColor overrides the status palette until the route is replaced.
func (d *Driver) ApplyColor(c color.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return ErrNoActiveRoute
	}
	d.override = &c
	d.active.ApplyColor(c)
	return nil
}

func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Driver) Snapshot() (scene.RouteSnapshot, Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return scene.RouteSnapshot{}, Status{}, ErrNoActiveRoute
	}
	if !d.active.Updated() {
		return scene.RouteSnapshot{}, Status{}, ErrNotUpdated
	}
	return d.active.Snapshot(), d.status, nil
}

// Submit hands s to Run without blocking. an unconsumed older sample is replaced.
func (d *Driver) Submit(s Sample) {
	for {
		select {
		case d.mailbox <- s:
			return
		default:
		}
		select {
		case <-d.mailbox:
		default:
		}
	}
}

// Run consumes submitted samples until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-d.mailbox:
			if _, err := d.Update(s); err != nil && err != ErrSampleDropped {
				d.log.Warn("sample rejected", zap.Error(err))
			}
		}
	}
}

func finiteMatrix(m math32.Matrix4) bool {
	for _, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}
