package controllers

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/scene"
)

type stepRequest struct {
	ID          string   `json:"id" validate:"required"`
	Lat         *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon         *float64 `json:"lon" validate:"required,min=-180,max=180"`
	Instruction string   `json:"instruction"`
}

type createSessionRequest struct {
	RouteID  string        `json:"route_id" validate:"required"`
	Steps    []stepRequest `json:"steps" validate:"omitempty,dive"`
	Polyline string        `json:"polyline"`
}

func (req createSessionRequest) toRoute() route.Route {
	steps := make([]route.Step, len(req.Steps))
	for i, s := range req.Steps {
		steps[i] = route.NewStep(s.ID, geo.NewCoordinate(*s.Lat, *s.Lon), s.Instruction)
	}
	return route.NewRoute(req.RouteID, steps)
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// sampleRequest carries a column-major 4x4 camera transform and a location fix.
type sampleRequest struct {
	Camera []float32 `json:"camera" validate:"len=16"`
	Lat    *float64  `json:"lat" validate:"required,min=-90,max=90"`
	Lon    *float64  `json:"lon" validate:"required,min=-180,max=180"`
	Time   time.Time `json:"time"`
}

func (req sampleRequest) toSample() driver.Sample {
	var cam math32.Matrix4
	copy(cam[:], req.Camera)
	t := req.Time
	if t.IsZero() {
		t = time.Now()
	}
	return driver.NewSample(cam, geo.NewCoordinate(*req.Lat, *req.Lon), t)
}

type wsFrame struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	sampleRequest
}

type colorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

type sceneResponse struct {
	Scene  scene.RouteSnapshot `json:"scene"`
	Status driver.Status       `json:"status"`
}

func newSceneResponse(snap scene.RouteSnapshot, st driver.Status) sceneResponse {
	return sceneResponse{Scene: snap, Status: st}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
