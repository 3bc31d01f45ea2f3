package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lintang-b-s/navigatorx-ar/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/logger"
	"github.com/lintang-b-s/navigatorx-ar/pkg/route"
	"github.com/lintang-b-s/navigatorx-ar/pkg/trace"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"go.uber.org/zap"
)

type traceFiles []string

func (t *traceFiles) String() string {
	return strings.Join(*t, ",")
}

func (t *traceFiles) Set(v string) error {
	*t = append(*t, v)
	return nil
}

var (
	routePolyline = flag.String("route", "", "google encoded polyline of the route")
	routeID       = flag.String("route_id", "replay", "route id")
	numWorkers    = flag.Int("workers", 4, "number of traces replayed concurrently")
	traces        traceFiles
)

type replayResult struct {
	file     string
	samples  int
	rejected int
	status   driver.Status
	err      error
}

func main() {
	flag.Var(&traces, "trace", "bzip2 trace file, may be repeated")
	flag.Parse()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if *routePolyline == "" || len(traces) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	r, err := route.FromPolyline(*routeID, *routePolyline)
	if err != nil {
		logger.Fatal("invalid route", zap.Error(err))
	}
	cfg, err := driver.ConfigFromViper()
	if err != nil {
		logger.Fatal("invalid driver config", zap.Error(err))
	}
	// traces are replayed as fast as possible; sample timing is not reproduced.
	cfg.MaxSampleRate = 0

	results := concurrent.Run(*numWorkers, []string(traces), func(file string) replayResult {
		return replay(file, r, cfg, logger)
	})

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			logger.Error("replay failed", zap.String("trace", res.file), zap.Error(res.err))
			continue
		}
		logger.Info("replay finished",
			zap.String("trace", res.file),
			zap.Int("samples", res.samples),
			zap.Int("rejected", res.rejected),
			zap.Uint64("updates", res.status.Updates),
			zap.Bool("off_route", res.status.Progress.OffRoute),
			zap.Int("next_step", res.status.Progress.NextStep),
			zap.Float64("distance_to_next_step", res.status.Progress.DistanceToNextStep),
		)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d traces failed\n", failed, len(results))
		os.Exit(1)
	}
}

func replay(file string, r route.Route, cfg driver.Config, log *zap.Logger) replayResult {
	res := replayResult{file: file}

	samples, err := trace.ReadFile(file)
	if err != nil {
		res.err = err
		return res
	}
	res.samples = len(samples)

	d := driver.NewDriver(cfg, log.With(zap.String("trace", file)))
	if err := d.SetRoute(r); err != nil {
		res.err = err
		return res
	}
	for _, s := range samples {
		if _, err := d.Update(s); err != nil {
			res.rejected++
		}
	}
	res.status = d.Status()
	return res
}
