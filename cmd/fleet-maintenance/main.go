package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	applicationPort "github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/application/usecase"

	// Domain
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"

	// Infrastructure
	redisCache "github.com/dreschagin/fleet-maintenance/internal/infrastructure/cache/redis"
	natsInfra "github.com/dreschagin/fleet-maintenance/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/fleet-maintenance/internal/infrastructure/observability/cloudwatch"
	dynamodbRepo "github.com/dreschagin/fleet-maintenance/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/fleet-maintenance/internal/infrastructure/persistence/postgres"

	// Interfaces
	httpInterface "github.com/dreschagin/fleet-maintenance/internal/interfaces/http"
	"github.com/dreschagin/fleet-maintenance/internal/interfaces/http/handler"
	"github.com/dreschagin/fleet-maintenance/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/fleet-maintenance/pkg/config"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Fleet Maintenance Engine")

	// 3. Подключаемся к БД
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		log.Error("Failed to ping database", err)
		os.Exit(1)
	}
	log.Info("Database connected successfully")

	// 4. Dependency Injection - Infrastructure Layer

	// Repositories
	aircraftRepository := postgres.NewPostgresAircraftRepository(db)
	componentRepository := postgres.NewPostgresComponentRepository(db)
	parameterRepository := postgres.NewPostgresParameterRepository(db)

	// Redis cache (optional)
	var cache applicationPort.Cache
	if cfg.Redis.Enabled {
		cacheImpl, initErr := redisCache.NewRedisCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
			cfg.Redis.PoolSize,
			cfg.Redis.MinIdleConns,
			cfg.Redis.DialTimeout,
			cfg.Redis.ReadTimeout,
			cfg.Redis.WriteTimeout,
		)
		if initErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", initErr.Error())
		} else {
			cache = cacheImpl
			defer cache.Close()
			log.Info("Redis cache initialized", "host", cfg.Redis.Host)
		}
	} else {
		log.Warn("Redis cache is disabled")
	}

	// 5. Dependency Injection - Domain Layer

	thresholdEvaluator := service.NewThresholdEvaluator()
	thresholdDefaults := service.NewThresholdDefaults()
	overhaulModel := service.NewOverhaulModelWithAnticipation(
		thresholdEvaluator,
		thresholdDefaults,
		cfg.Engine.AnticipationHours,
	)

	// 5.5. CloudWatch Integration

	// CloudWatch Metrics Publisher
	var metricsPublisher applicationPort.MetricsPublisher
	if cfg.CloudWatch.MetricsEnabled {
		publisherImpl, initErr := cloudwatch.NewMetricsPublisher(context.Background(),
			cloudwatch.MetricsPublisherConfig{
				Namespace:         cfg.CloudWatch.MetricsNamespace,
				Region:            cfg.CloudWatch.Region,
				Endpoint:          cfg.CloudWatch.Endpoint,
				AccessKeyID:       cfg.CloudWatch.AccessKeyID,
				SecretAccessKey:   cfg.CloudWatch.SecretAccessKey,
				DefaultDimensions: cfg.CloudWatch.MetricsDimensions,
				BufferSize:        cfg.CloudWatch.MetricsBufferSize,
				FlushInterval:     cfg.CloudWatch.MetricsFlushInterval,
				StorageResolution: cfg.CloudWatch.MetricsStorageResolution,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		metricsPublisher = publisherImpl
		log.Info("CloudWatch metrics publisher initialized")
	} else {
		log.Warn("CloudWatch metrics publishing is disabled")
	}

	// CloudWatch Logs Publisher
	var logsPublisher applicationPort.LogPublisher
	if cfg.CloudWatch.LogsEnabled {
		publisherImpl, initErr := cloudwatch.NewLogsPublisher(context.Background(),
			cloudwatch.LogsPublisherConfig{
				LogGroupName:    cfg.CloudWatch.LogGroupName,
				LogStreamName:   cfg.CloudWatch.LogStreamName,
				Region:          cfg.CloudWatch.Region,
				Endpoint:        cfg.CloudWatch.Endpoint,
				AccessKeyID:     cfg.CloudWatch.AccessKeyID,
				SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
				BufferSize:      cfg.CloudWatch.LogsBufferSize,
				FlushInterval:   cfg.CloudWatch.LogsFlushInterval,
				AutoCreate:      true,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", initErr)
			os.Exit(1)
		}
		logsPublisher = publisherImpl
		log.SetLogPublisher(logsPublisher)
		log.Info("CloudWatch logs publisher initialized")
	} else {
		log.Warn("CloudWatch logs publishing is disabled")
	}

	// 5.6. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			if streamErr := publisherImpl.EnsureMaintenanceStream(); streamErr != nil {
				log.Warn("Failed to ensure maintenance stream", "error", streamErr.Error())
			}
			eventPublisher = publisherImpl
			defer eventPublisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 5.7. DynamoDB Alert Snapshot Repository
	var snapshotRepository applicationPort.AlertSnapshotRepository
	if cfg.Dynamo.Enabled {
		repoImpl, initErr := dynamodbRepo.NewAlertSnapshotRepository(context.Background(), dynamodbRepo.Config{
			TableName:       cfg.Dynamo.TableAlertSnapshot,
			Region:          cfg.Dynamo.Region,
			Endpoint:        cfg.Dynamo.Endpoint,
			AccessKeyID:     cfg.Dynamo.AccessKeyID,
			SecretAccessKey: cfg.Dynamo.SecretAccessKey,
			StrongReads:     cfg.Dynamo.StrongReads,
		})
		if initErr != nil {
			log.Error("Failed to initialize alert snapshot repository", initErr)
			os.Exit(1)
		}
		snapshotRepository = repoImpl
		log.Info("Alert snapshot repository initialized", "provider", "dynamodb")
	} else {
		log.Warn("DynamoDB alert snapshots are disabled")
	}

	// 6. Dependency Injection - Application Layer (Use Cases)

	propagateFlightHoursUC := usecase.NewPropagateFlightHoursUseCase(
		aircraftRepository,
		componentRepository,
		parameterRepository,
		overhaulModel,
		eventPublisher,   // Can be nil if NATS disabled
		logsPublisher,    // Can be nil if CloudWatch disabled
		metricsPublisher, // Can be nil if CloudWatch disabled
		log,
	)

	getAircraftAlertsUC := usecase.NewGetAircraftAlertsUseCase(
		aircraftRepository,
		parameterRepository,
		overhaulModel,
		logsPublisher, // Can be nil if CloudWatch disabled
		log,
	)

	getFleetAlertsUC := usecase.NewGetFleetAlertsUseCase(
		aircraftRepository,
		parameterRepository,
		getAircraftAlertsUC,
		cache,
		snapshotRepository,
		eventPublisher,
		log,
	)

	completeOverhaulUC := usecase.NewCompleteOverhaulUseCase(
		parameterRepository,
		overhaulModel,
		eventPublisher,
		cache,
		log,
	)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	alertsAPIHandler := handler.NewAlertsAPIHandler(getFleetAlertsUC, getAircraftAlertsUC, log)
	overhaulAPIHandler := handler.NewOverhaulAPIHandler(completeOverhaulUC, log)
	authAPIHandler := handler.NewAuthAPIHandler(middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
	}, log)

	router := httpInterface.NewRouter(
		alertsAPIHandler,
		overhaulAPIHandler,
		authAPIHandler,
		cfg.Security,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS consumer: показания налета от бортовых систем
	var flightHoursConsumer *natsInfra.FlightHoursConsumer
	if cfg.NATS.Enabled && cfg.NATS.ConsumerEnabled {
		readingHandler := func(handlerCtx context.Context, aircraftID string, cumulativeHours float64) error {
			report, execErr := propagateFlightHoursUC.Execute(handlerCtx, aircraftID, cumulativeHours)
			if execErr != nil {
				// Откат налета и неизвестное судно не лечатся повторной
				// доставкой, подтверждаем и оставляем след в логе
				if errors.Is(execErr, usecase.ErrHoursDecrement) || errors.Is(execErr, repository.ErrNotFound) {
					log.Warn("Dropping unprocessable flight hours reading",
						"aircraft_id", aircraftID,
						"hours", cumulativeHours,
						"reason", execErr.Error())
					return nil
				}
				return execErr
			}
			log.Info("Flight hours propagated",
				"aircraft_id", aircraftID,
				"status", report.Status,
				"components_updated", report.ComponentsUpdated,
				"parameters_updated", report.ParametersUpdated)
			return nil
		}

		consumerImpl, initErr := natsInfra.NewFlightHoursConsumer(
			cfg.NATS.URL,
			readingHandler,
			cfg.NATS.ConsumerRate,
			cfg.NATS.ConsumerBurst,
			log,
		)
		if initErr != nil {
			log.Error("Failed to connect flight hours consumer", initErr)
			os.Exit(1)
		}
		if startErr := consumerImpl.Start(ctx); startErr != nil {
			log.Error("Failed to start flight hours consumer", startErr)
			os.Exit(1)
		}
		flightHoursConsumer = consumerImpl
		log.Info("Flight hours consumer started", "rate", cfg.NATS.ConsumerRate)
	} else {
		log.Warn("Flight hours consumer is disabled")
	}

	// NATS consumer: команды о выполненном overhaul от планирования ТО
	var overhaulConsumer *natsInfra.OverhaulCommandConsumer
	if cfg.NATS.Enabled && cfg.NATS.ConsumerEnabled {
		commandHandler := func(handlerCtx context.Context, parameterID string) error {
			_, execErr := completeOverhaulUC.Execute(handlerCtx, parameterID)
			if execErr != nil {
				// Доменные отказы не лечатся повторной доставкой
				if errors.Is(execErr, entity.ErrCyclesExhausted) ||
					errors.Is(execErr, entity.ErrOverhaulNotEnabled) ||
					errors.Is(execErr, repository.ErrNotFound) {
					log.Warn("Dropping unprocessable overhaul command",
						"parameter_id", parameterID,
						"reason", execErr.Error())
					return nil
				}
				return execErr
			}
			return nil
		}

		consumerImpl, initErr := natsInfra.NewOverhaulCommandConsumer(cfg.NATS.URL, commandHandler, log)
		if initErr != nil {
			log.Error("Failed to connect overhaul command consumer", initErr)
			os.Exit(1)
		}
		if startErr := consumerImpl.Start(ctx); startErr != nil {
			log.Error("Failed to start overhaul command consumer", startErr)
			os.Exit(1)
		}
		overhaulConsumer = consumerImpl
	}

	// Периодический обзор флота
	go func() {
		ticker := time.NewTicker(cfg.Engine.FleetScanInterval)
		defer ticker.Stop()

		log.Info("Fleet alert scanner started",
			"interval", cfg.Engine.FleetScanInterval.String())

		for {
			select {
			case <-ticker.C:
				alerts, scanErr := getFleetAlertsUC.Execute(ctx)
				if scanErr != nil {
					log.Error("Failed to scan fleet alerts", scanErr)
					continue
				}
				log.Info("Fleet alert scan completed", "alerts", len(alerts))
			case <-ctx.Done():
				log.Info("Fleet alert scanner stopped")
				return
			}
		}
	}()

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем фоновые процессы
	cancel()

	if flightHoursConsumer != nil {
		if err := flightHoursConsumer.Close(); err != nil {
			log.Error("Failed to close flight hours consumer", err)
		}
	}

	if overhaulConsumer != nil {
		if err := overhaulConsumer.Close(); err != nil {
			log.Error("Failed to close overhaul command consumer", err)
		}
	}

	// Даем время на завершение текущих операций
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Flush CloudWatch buffers before shutdown
	if metricsPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := metricsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	if logsPublisher != nil {
		log.Info("Flushing CloudWatch logs buffer...")
		if err := logsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch logs", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Engine stopped gracefully")
}
