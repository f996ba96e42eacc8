// README: Imports toll-free dates into Postgres and drops the Redis cache.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"tollfee/internal/config"
	"tollfee/internal/infra"
	"tollfee/internal/log"
	"tollfee/internal/modules/toll"
)

func main() {
	configPath := flag.String("config", os.Getenv("TOLL_CONFIG"), "optional YAML config file")
	dates := flag.String("dates", "", "comma separated YYYY-MM-DD dates; defaults to toll.holiday_dates")
	name := flag.String("name", "imported", "label stored with each date")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger, _ := log.New("info")
		bootLogger.Fatal("load config", zap.Error(err))
	}
	logger, err := log.Init(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	values := cfg.Toll.HolidayDates
	if *dates != "" {
		values = strings.Split(*dates, ",")
	}
	parsed, err := toll.ParseHolidayDates(values)
	if err != nil {
		logger.Fatal("parse dates", zap.Error(err))
	}

	ctx := context.Background()
	if cfg.DB.DSN == "" {
		logger.Fatal("db.dsn is required")
	}
	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, cache not invalidated", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	if err := toll.NewStore(db, rdb).UpsertHolidays(ctx, parsed, *name); err != nil {
		logger.Fatal("import holidays", zap.Error(err))
	}
	logger.Info("holidays imported", zap.Int("count", len(parsed)), zap.String("name", *name))
}
