package scene

import "image/color"

var (
	DefaultStepColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DefaultMarkerColor  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DefaultSegmentColor = color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
)

// Material is the color state of a renderable node.
type Material struct {
	Color color.RGBA
}
