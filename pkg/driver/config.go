package driver

import (
	"image/color"

	"github.com/lintang-b-s/navigatorx-ar/pkg/scene"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

const (
	defaultThresholdDistance = 10.0
	defaultOffRouteDistance  = 30.0
	defaultMaxSampleRate     = 30.0
	defaultOnRouteColor      = "#2196f3"
	defaultOffRouteColor     = "#f44336"
)

type Config struct {
	// ThresholdDistance is the proximity radius of a step, in meters.
	ThresholdDistance float64
	// OffRouteDistance is how far from every leg the device may drift, in meters.
	OffRouteDistance float64
	// MaxSampleRate in Hz. zero or negative disables limiting.
	MaxSampleRate float64
	OnRouteColor  color.RGBA
	OffRouteColor color.RGBA
	SegmentRadius float32
}

func DefaultConfig() Config {
	on, _ := ParseColor(defaultOnRouteColor)
	off, _ := ParseColor(defaultOffRouteColor)
	return Config{
		ThresholdDistance: defaultThresholdDistance,
		OffRouteDistance:  defaultOffRouteDistance,
		MaxSampleRate:     defaultMaxSampleRate,
		OnRouteColor:      on,
		OffRouteColor:     off,
		SegmentRadius:     scene.DefaultSegmentRadius,
	}
}

func ConfigFromViper() (Config, error) {
	viper.SetDefault("THRESHOLD_DISTANCE_METERS", defaultThresholdDistance)
	viper.SetDefault("OFF_ROUTE_DISTANCE_METERS", defaultOffRouteDistance)
	viper.SetDefault("MAX_SAMPLE_RATE", defaultMaxSampleRate)
	viper.SetDefault("SEGMENT_RADIUS", scene.DefaultSegmentRadius)
	viper.SetDefault("ON_ROUTE_COLOR", defaultOnRouteColor)
	viper.SetDefault("OFF_ROUTE_COLOR", defaultOffRouteColor)

	on, err := ParseColor(viper.GetString("ON_ROUTE_COLOR"))
	if err != nil {
		return Config{}, err
	}
	off, err := ParseColor(viper.GetString("OFF_ROUTE_COLOR"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ThresholdDistance: viper.GetFloat64("THRESHOLD_DISTANCE_METERS"),
		OffRouteDistance:  viper.GetFloat64("OFF_ROUTE_DISTANCE_METERS"),
		MaxSampleRate:     viper.GetFloat64("MAX_SAMPLE_RATE"),
		OnRouteColor:      on,
		OffRouteColor:     off,
		SegmentRadius:     float32(viper.GetFloat64("SEGMENT_RADIUS")),
	}
	if cfg.ThresholdDistance < 0 || cfg.OffRouteDistance < 0 || cfg.SegmentRadius <= 0 {
		return Config{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"distances must be non-negative and segment radius positive")
	}
	return cfg, nil
}

// ParseColor parses "#rrggbb" into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid color %q", hex)
	}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}
