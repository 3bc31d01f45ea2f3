package guidance

import "github.com/lintang-b-s/navigatorx-ar/pkg/spatialindex"

type SpatialIndex interface {
	SearchWithinRadius(float64, float64, float64) []spatialindex.LegEntry
}
