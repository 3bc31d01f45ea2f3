package controllers

import (
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/scene"
)

type SessionService interface {
	Create(r route.Route) (string, error)
	CreateFromPolyline(routeID, polyline string) (string, error)
	Delete(id string) error
	Update(id string, s driver.Sample) (scene.RouteSnapshot, driver.Status, error)
	Submit(id string, s driver.Sample) error
	ApplyColor(id, hex string) error
	Snapshot(id string) (scene.RouteSnapshot, driver.Status, error)
}
