package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	sinks "annuity-exchange/internal/adapter/events"
	"annuity-exchange/internal/adapter/repository/mysql"
	"annuity-exchange/internal/config"
	"annuity-exchange/internal/domain/events"
	"annuity-exchange/internal/infrastructure/cache"
	"annuity-exchange/internal/infrastructure/db"
	"annuity-exchange/internal/infrastructure/pricefeed"
	"annuity-exchange/internal/infrastructure/swapdex"
	"annuity-exchange/internal/usecase/liquidation"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.Open(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	tx := mysql.NewGormUoW(gdb)
	po := pricefeed.NewClient(cfg.PriceFeedURL, rdb, time.Duration(cfg.PriceCacheTTLSecs)*time.Second)
	sv := swapdex.NewClient(cfg.SwapVenueURL)
	sink := events.Multi{
		sinks.NewZapSink(zlog),
		sinks.NewRedisSink(rdb, cfg.EventStream),
	}

	params := cfg.Ledger()
	scanner := liquidation.NewScanner(tx, po, params, cfg.MaxPriceAge())
	executor := liquidation.NewExecutor(tx, po, sv, params, cfg.MaxPriceAge(), sink, zlog)
	metrics := liquidation.NewMetrics(prometheus.DefaultRegisterer)
	keeper := liquidation.NewKeeper(scanner, executor, cfg.KeeperInterval(), zlog, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// metrics endpoint for the daemon
	msrv := &http.Server{Addr: ":" + cfg.AppPort, Handler: promhttp.Handler()}
	go func() {
		if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	if err := keeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("keeper exited", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = msrv.Shutdown(shutdownCtx)
}
