package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	acctrepo "github.com/Symbiotnev/PITIA-pitia/internal/account/repository"
	acctservice "github.com/Symbiotnev/PITIA-pitia/internal/account/service"
	cartservice "github.com/Symbiotnev/PITIA-pitia/internal/cart/service"
	cartstore "github.com/Symbiotnev/PITIA-pitia/internal/cart/store"
	"github.com/Symbiotnev/PITIA-pitia/internal/config"
	"github.com/Symbiotnev/PITIA-pitia/internal/eta"
	"github.com/Symbiotnev/PITIA-pitia/internal/httpapi"
	locrepo "github.com/Symbiotnev/PITIA-pitia/internal/location/repository"
	locservice "github.com/Symbiotnev/PITIA-pitia/internal/location/service"
	menurepo "github.com/Symbiotnev/PITIA-pitia/internal/menu/repository"
	menuservice "github.com/Symbiotnev/PITIA-pitia/internal/menu/service"
	"github.com/Symbiotnev/PITIA-pitia/internal/order/events"
	orderrepo "github.com/Symbiotnev/PITIA-pitia/internal/order/repository"
	orderservice "github.com/Symbiotnev/PITIA-pitia/internal/order/service"
	"github.com/Symbiotnev/PITIA-pitia/internal/platform"
	promorepo "github.com/Symbiotnev/PITIA-pitia/internal/promo/repository"
	promoservice "github.com/Symbiotnev/PITIA-pitia/internal/promo/service"
	"github.com/Symbiotnev/PITIA-pitia/internal/settings"
	"github.com/Symbiotnev/PITIA-pitia/internal/storage"
	"github.com/Symbiotnev/PITIA-pitia/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// MongoDB
	mongoDB, err := platform.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Info("connected to MongoDB", zap.String("uri", cfg.MongoURI))

	if err := orderrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Warn("failed to ensure order indexes", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	log.Info("Redis ping succeeded")

	// Object storage
	objects, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatal("failed to set up object storage", zap.Error(err))
	}

	// Kafka
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	// Services
	accounts := acctservice.NewAccountService(acctrepo.NewMongoRepository(mongoDB))
	promos := promoservice.NewPromoService(promorepo.NewMongoRepository(mongoDB), log)
	menu := menuservice.NewMenuService(menurepo.NewMongoRepository(mongoDB), objects, log)
	cart := cartservice.NewCartService(cartstore.NewRedisStore(redisClient), log)
	orders := orderservice.NewOrderService(
		orderrepo.NewMongoRepository(mongoDB), cart, accounts, publisher, cfg.DeliveryFee, log)
	locations := locservice.NewLocationService(locrepo.NewMongoRepository(mongoDB))
	calculator := eta.NewCalculator(cfg.OSRMBaseURL, log)
	prefs := settings.NewService(redisClient, log)

	router := httpapi.NewRouter(httpapi.Handlers{
		Cart:     httpapi.NewCartHandler(cart, menu, promos, log),
		Orders:   httpapi.NewOrderHandler(orders, log),
		Menu:     httpapi.NewMenuHandler(menu, log),
		Promos:   httpapi.NewPromoHandler(promos, log),
		ETA:      httpapi.NewETAHandler(calculator, locations, log),
		Location: httpapi.NewLocationHandler(locations, log),
		Settings: httpapi.NewSettingsHandler(prefs, log),
		Accounts: httpapi.NewAccountHandler(accounts, log),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "pitia"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
