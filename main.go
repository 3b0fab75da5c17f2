package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/countdown"
	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/httpserver"
	"github.com/robalobadob/defuse/internal/lexicon"
	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := lexicon.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word tables")
	}

	interval, err := time.ParseDuration(getEnv("TICK_INTERVAL", "1s"))
	if err != nil {
		log.Fatal().Err(err).Msg("bad TICK_INTERVAL")
	}
	cd, err := countdown.New(interval, countdown.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start countdown scheduler")
	}
	defer func() { _ = cd.Shutdown() }()

	rules, err := rulesFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("bad CAPACITOR_POLICY")
	}

	opts := []httpserver.Option{
		httpserver.WithLogger(log.Logger),
		httpserver.WithRules(rules),
		httpserver.WithDailySalt(getEnv("DAILY_SALT", "local_dev_salt")),
	}
	if dsn := os.Getenv("RESULTS_DB"); dsn != "" {
		db, err := openDB(dsn)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", dsn).Msg("open results db")
		}
		defer db.Close()
		if err := migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate results db")
		}
		opts = append(opts, httpserver.WithResults(daily.NewStore(db)))
	} else {
		log.Info().Msg("RESULTS_DB not set; results log disabled")
	}

	srv := httpserver.New(store.NewMemoryStore(), cd, opts...)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Dur("tick", interval).Msg("starting defuse server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func rulesFromEnv() (modules.Rules, error) {
	rules := modules.DefaultRules
	p, err := modules.ParseOverchargePolicy(getEnv("CAPACITOR_POLICY", "at-ceiling"))
	if err != nil {
		return rules, err
	}
	rules.Overcharge = p
	return rules, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
