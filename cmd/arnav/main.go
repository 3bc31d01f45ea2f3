package main

import (
	"context"
	"flag"
	"os"

	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/http"
	"github.com/lintang-b-s/navigatorx-ar/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-ar/pkg/logger"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "enable per-client http rate limiting (overrides USE_RATE_LIMIT)")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("TRACE_DIR", "")

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := driver.ConfigFromViper()
	if err != nil {
		logger.Fatal("invalid driver config", zap.Error(err))
	}

	traceDir := viper.GetString("TRACE_DIR")
	if traceDir != "" {
		if err := os.MkdirAll(traceDir, 0o755); err != nil {
			logger.Fatal("create trace dir", zap.String("dir", traceDir), zap.Error(err))
		}
	}

	sessionService := usecases.NewSessionService(logger, cfg, traceDir)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit || viper.GetBool("USE_RATE_LIMIT"), sessionService); err != nil {
		logger.Fatal("start server", zap.Error(err))
	}

	logger.Info("Navigatorx AR scene server started",
		zap.Float64("threshold_distance", cfg.ThresholdDistance),
		zap.Float64("off_route_distance", cfg.OffRouteDistance),
		zap.Float64("max_sample_rate", cfg.MaxSampleRate))

	signal := http.GracefulShutdown()

	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
	sessionService.Close()
	logger.Info("Navigatorx AR scene server stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
