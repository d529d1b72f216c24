package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/amqp"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/config"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/repository/postgres"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	once := flag.Bool("once", false, "warm reports for -period (default: previous month) and exit")
	periodFlag := flag.String("period", "", "period to warm with -once, as YYYY-MM")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	reportService := service.NewReportService(
		postgres.NewIncomeRepository(pool),
		postgres.NewExpenseRepository(pool),
		postgres.NewBudgetRepository(pool),
		postgres.NewReportRepository(pool),
		advice.NewProvider(cfg.Advice, log.Logger),
	)

	// The API's websocket hub lives in another process, so reports built here
	// reach subscribers through the broker only
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		defer amqpPublisher.Close()
		reportService.SetEventPublisher(amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing events to broker")
	} else {
		log.Warn().Msg("AMQP_URL not set, reports built by the worker will not emit events")
	}

	worker, err := service.NewReportWorker(reportService, postgres.NewOwnerRepository(pool), log.Logger, service.ReportWorkerConfig{
		Schedule: cfg.ReportCron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		var result *service.WarmResult
		if *periodFlag != "" {
			period, parseErr := domain.ParsePeriod(*periodFlag)
			if parseErr != nil {
				log.Fatal().Err(parseErr).Str("period", *periodFlag).Msg("Invalid period")
			}
			result, err = worker.WarmPeriod(ctx, period)
		} else {
			result, err = worker.WarmPreviousPeriod(ctx)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Report warm-up failed")
		}
		log.Info().
			Str("period", result.Period.String()).
			Int("owners", result.Owners).
			Int("built", result.Built).
			Int("errors", result.Errors).
			Msg("Report warm-up finished")
		return
	}

	worker.Start(ctx)
	log.Info().Str("schedule", cfg.ReportCron).Msg("Report worker started")

	<-ctx.Done()
	log.Info().Msg("Stopping report worker...")
	worker.Stop()
	log.Info().Msg("Report worker exited")
}
