package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SRIKANTH-006/CineScan/app"
	"github.com/SRIKANTH-006/CineScan/db"
	"github.com/SRIKANTH-006/CineScan/pkg"
	"github.com/SRIKANTH-006/CineScan/tracing"
)

type Config struct {
	Port           int    `long:"port" env:"PORT" default:"8000" description:"HTTP listen port"`
	PostgresURL    string `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"Postgres connection string"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for event streams; events stay in process when empty"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"Jaeger collector endpoint; traces are not exported when empty"`
	WebDir         string `long:"web-dir" env:"WEB_DIR" default:"web" description:"directory with index.html, admin.html and static/"`
	LogLevel       string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"logrus level"`
}

func main() {
	var cfg Config
	if _, err := flags.Parse(&cfg); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("invalid log level: %w", err))
	}
	log.Init(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		panic(err)
	}

	dbConn, err := db.Open(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer dbConn.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = pkg.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()
	}

	application, err := app.New(
		fmt.Sprintf(":%d", cfg.Port),
		cfg.WebDir,
		dbConn,
		redisClient,
		traceProvider,
	)
	if err != nil {
		panic(err)
	}

	if err := application.Run(ctx); err != nil {
		panic(err)
	}
}
