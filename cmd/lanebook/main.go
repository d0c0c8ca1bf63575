package main

import (
	availabilityhandler "lanebook/internal/availability/handler"
	availabilityservice "lanebook/internal/availability/service"
	bookinghandler "lanebook/internal/bookings/handler"
	bookingrepo "lanebook/internal/bookings/repository"
	bookingservice "lanebook/internal/bookings/service"
	bookingvalidator "lanebook/internal/bookings/validator"
	lanehandler "lanebook/internal/lanes/handler"
	lanerepo "lanebook/internal/lanes/repository"
	laneservice "lanebook/internal/lanes/service"
	lanevalidator "lanebook/internal/lanes/validator"
	schedulehandler "lanebook/internal/schedule/handler"
	schedulerepo "lanebook/internal/schedule/repository"
	scheduleservice "lanebook/internal/schedule/service"
	schedulevalidator "lanebook/internal/schedule/validator"
	"lanebook/pkg/app"
	"lanebook/pkg/config"
	"lanebook/pkg/kafka"
	kafka_config "lanebook/pkg/kafka/config"
)

const ServiceName = "lanebook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Lanebook service")

	serverApp := app.NewApplication(cfg)

	hoursRepo := schedulerepo.NewMongoHoursRepository(cfg)
	hoursService := scheduleservice.NewHoursService(
		hoursRepo,
		schedulevalidator.NewHoursValidator(cfg.Log),
		cfg,
	)

	laneRepo := lanerepo.NewMongoLaneRepository(cfg)
	laneService := laneservice.NewLaneService(
		laneRepo,
		lanevalidator.NewLaneValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewBookingLockRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		laneRepo,
		hoursService,
		bookingvalidator.NewBookingValidator(cfg.Log),
		initPublisher(cfg, serverApp),
		cfg,
	)

	availabilityService := availabilityservice.NewAvailabilityService(
		hoursService,
		laneRepo,
		bookingRepo,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		schedulehandler.NewHoursHandler(hoursService, cfg.Log),
		lanehandler.NewLaneHandler(laneService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

// initPublisher returns nil when Kafka is disabled; the booking service
// treats a nil publisher as a no-op sink.
func initPublisher(cfg *config.Config, serverApp *app.Application) bookingservice.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka publishing disabled; booking events will not be emitted")
		return nil
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	serverApp.AddCloser(producer)

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}
