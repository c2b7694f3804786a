package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	sinks "annuity-exchange/internal/adapter/events"
	httpadp "annuity-exchange/internal/adapter/http"
	mw "annuity-exchange/internal/adapter/middleware"
	"annuity-exchange/internal/adapter/repository/mysql"
	"annuity-exchange/internal/config"
	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/domain/events"
	"annuity-exchange/internal/infrastructure/cache"
	"annuity-exchange/internal/infrastructure/db"
	"annuity-exchange/internal/infrastructure/pricefeed"
	"annuity-exchange/internal/infrastructure/swapdex"
	"annuity-exchange/internal/usecase/ledger"
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
	if err := gdb.AutoMigrate(&agreement.Agreement{}, &custody.Balance{}); err != nil {
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
	uc := ledger.NewUsecase(tx, po, params, cfg.MaxPriceAge(), sink)
	scanner := liquidation.NewScanner(tx, po, params, cfg.MaxPriceAge())
	executor := liquidation.NewExecutor(tx, po, sv, params, cfg.MaxPriceAge(), sink, zlog)

	h := httpadp.NewHandler()
	ah := httpadp.NewAgreementHandler(uc)
	lh := httpadp.NewLiquidationHandler(scanner, executor)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))

	g := e.Group("", mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	g.POST("/accounts/:account_id/fund", ah.Fund)
	g.POST("/agreements", ah.Propose)
	g.GET("/agreements/:agreement_id", ah.Get)
	g.POST("/agreements/:agreement_id/activate", ah.Activate)
	g.POST("/agreements/:agreement_id/collateral", ah.AddCollateral)
	g.POST("/agreements/:agreement_id/collateral/withdraw", ah.WithdrawCollateral)
	g.POST("/agreements/:agreement_id/repay", ah.Repay)
	g.POST("/agreements/:agreement_id/close", ah.Close)
	g.GET("/liquidations/check", lh.Check)
	g.POST("/liquidations/perform", lh.Perform)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
