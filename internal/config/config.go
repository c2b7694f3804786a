package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"annuity-exchange/internal/domain/agreement"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr   string
	RedisDB     int
	EventStream string

	IdempTTLSecs int

	PriceFeedURL      string
	SwapVenueURL      string
	PriceCacheTTLSecs int
	MaxPriceAgeSecs   int

	KeeperIntervalSecs int

	// Ledger parameters, fixed at deployment.
	TargetRatio          uint64
	LiquidationThreshold uint64
	DepositDecimals      uint32
	CollateralDecimals   uint32
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "annuity"),
		MySQLUser: getenv("MYSQL_USER", "annuity"),
		MySQLPass: getenv("MYSQL_PASS", "annuity"),

		RedisAddr:   getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:     getint("REDIS_DB", 0),
		EventStream: getenv("EVENT_STREAM", "ledger:events"),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		PriceFeedURL:      getenv("PRICE_FEED_URL", "http://pricefeed:9000/price"),
		SwapVenueURL:      getenv("SWAP_VENUE_URL", "http://swapvenue:9100/swap"),
		PriceCacheTTLSecs: getint("PRICE_CACHE_TTL_SECONDS", 2),
		MaxPriceAgeSecs:   getint("MAX_PRICE_AGE_SECONDS", 300),

		KeeperIntervalSecs: getint("KEEPER_INTERVAL_SECONDS", 15),

		TargetRatio:          uint64(getint("TARGET_RATIO", 200)),
		LiquidationThreshold: uint64(getint("LIQUIDATION_THRESHOLD", 80)),
		DepositDecimals:      uint32(getint("DEPOSIT_DECIMALS", 6)),
		CollateralDecimals:   uint32(getint("COLLATERAL_DECIMALS", 18)),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.PriceFeedURL == "" {
		return errors.New("missing PRICE_FEED_URL")
	}
	if c.SwapVenueURL == "" {
		return errors.New("missing SWAP_VENUE_URL")
	}
	if c.KeeperIntervalSecs <= 0 {
		return errors.New("KEEPER_INTERVAL_SECONDS must be positive")
	}
	return c.Ledger().Validate()
}

// Ledger returns the deployment-fixed agreement parameters.
func (c *Config) Ledger() agreement.Params {
	return agreement.Params{
		TargetRatio:          c.TargetRatio,
		LiquidationThreshold: c.LiquidationThreshold,
		DepositDecimals:      c.DepositDecimals,
		CollateralDecimals:   c.CollateralDecimals,
	}
}

func (c *Config) MaxPriceAge() time.Duration {
	return time.Duration(c.MaxPriceAgeSecs) * time.Second
}

func (c *Config) KeeperInterval() time.Duration {
	return time.Duration(c.KeeperIntervalSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
