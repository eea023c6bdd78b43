package main

import (
	"context"
	"log"
	"net/http"

	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SergeyKozhin/planner-calendar/internal/api"
	tasks_service "github.com/SergeyKozhin/planner-calendar/internal/business/tasks"
	"github.com/SergeyKozhin/planner-calendar/internal/business/views"
	"github.com/SergeyKozhin/planner-calendar/internal/config"
	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/database/calendars"
	"github.com/SergeyKozhin/planner-calendar/internal/database/tasks"
	"github.com/SergeyKozhin/planner-calendar/internal/database/user"
	"github.com/SergeyKozhin/planner-calendar/internal/notifications"
	"github.com/SergeyKozhin/planner-calendar/internal/pkg/jwt"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)

	if err := config.Load(); err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initializae logger: %v", err)
	}

	jwts := jwt.NewManager(config.Secret(), config.JwtTTL())

	db, err := database.NewPGX(ctx, config.PostgresURL())
	if err != nil {
		logger.Fatalw("unable to initializae db", "err", err)
	}
	usersRepository := user.NewRepository()
	calendarsRepository := calendars.NewRepository()
	tasksRepository := tasks.NewRepository()

	expander := tasks_service.NewExpander(logger, config.Location(), config.MaxOccurrences())
	tasksService := tasks_service.NewService(db, logger, expander, tasksRepository, calendarsRepository)

	sender := notifications.NewSender(
		db,
		logger,
		config.Location(),
		calendarsRepository,
		usersRepository,
		tasksService,
		notifications.NewLogDispatcher(logger),
	)
	if err := sender.Start(ctx, config.NotifySchedule()); err != nil {
		logger.Fatalw("unable to start notifications sender", "err", err)
	}
	closer.Bind(sender.Stop)

	api, err := api.NewApi(
		logger,
		config.Location(),
		views.NewBuilder(config.WeekStart(), config.Location()),
		jwts,
		db,
		usersRepository,
		calendarsRepository,
		tasksService,
	)
	if err != nil {
		logger.Fatalw("unable to initializae api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}
	closer.Bind(func() {
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Errorw("server shutdown", "err", err)
		}
	})

	go func() {
		logger.Infow("Started server", "port", config.Port())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("server error", "err", err)
			closer.Close()
		}
	}()

	closer.Hold()
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
