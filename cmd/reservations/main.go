package main

import (
	catalogrepo "slotify/internal/catalog/repository"
	"slotify/internal/reservations/handler"
	"slotify/internal/reservations/repository"
	"slotify/internal/reservations/service"
	"slotify/internal/reservations/validator"
	"slotify/pkg/app"
	"slotify/pkg/cache"
	"slotify/pkg/config"
	"slotify/pkg/contracts"
	"slotify/pkg/kafka"
	kafka_config "slotify/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	serverApp := app.NewApplication(cfg)

	handlers, holdService := initServices(cfg, serverApp)
	serverApp.SetApp(handlers...)
	serverApp.StartHoldSweeper(holdService)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) ([]contracts.Handler, service.HoldService) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	availabilityCache := cache.NewScopedCache(cfg.AvailabilityCacheTTL)

	storeRepo := catalogrepo.NewMongoStoreRepository(cfg)
	menuRepo := catalogrepo.NewMongoMenuRepository(cfg)
	resourceRepo := catalogrepo.NewMongoResourceRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	holdRepo := repository.NewMongoHoldRepository(cfg)
	lockRepo := repository.NewMongoSlotLockRepository(cfg)

	conflictDetector := service.NewConflictDetector(bookingRepo, holdRepo, cfg)
	holdService := service.NewHoldService(
		holdRepo,
		lockRepo,
		conflictDetector,
		storeRepo,
		menuRepo,
		resourceRepo,
		availabilityCache,
		cfg,
	)
	availabilityService := service.NewAvailabilityService(
		storeRepo,
		menuRepo,
		resourceRepo,
		bookingRepo,
		holdRepo,
		availabilityCache,
		cfg,
	)
	pricingService := service.NewPricingService(menuRepo, resourceRepo, cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		holdService,
		conflictDetector,
		storeRepo,
		menuRepo,
		resourceRepo,
		initPublisher(cfg, serverApp),
		availabilityCache,
		cfg,
	)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		handler.NewAvailabilityHandler(availabilityService, cfg.Log),
		handler.NewHoldHandler(holdService, reservationValidator, cfg.Log),
		handler.NewBookingHandler(bookingService, reservationValidator, cfg.Log),
		handler.NewPricingHandler(pricingService, reservationValidator, cfg.Log),
	}, holdService
}

// initPublisher wires the booking event producer. Without brokers
// configured the service runs with events disabled.
func initPublisher(cfg *config.Config, serverApp *app.Application) service.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("Kafka brokers not configured, booking events disabled")
		return nil
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventTopic, cfg.BookingEventDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventTopic, "dlq", cfg.BookingEventDLQ)
	return producer
}
