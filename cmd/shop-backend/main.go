package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartway/shop-backend/internal/cache"
	"github.com/cartway/shop-backend/internal/httpapi"
	"github.com/cartway/shop-backend/internal/notify"
	"github.com/cartway/shop-backend/internal/payment"
	"github.com/cartway/shop-backend/internal/repository"
	"github.com/cartway/shop-backend/internal/scheduler"
	"github.com/cartway/shop-backend/internal/service"
	"github.com/cartway/shop-backend/internal/stock"
)

type Config struct {
	HTTPPort          string
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	KafkaBrokers      []string
	PaymentAPIURL     string
	PaymentAPIKey     string
	JWTSecret         string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	SchedulerInterval time.Duration
	ProcessingDelay   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("SHOP_HTTP_PORT", "8080"),
		MongoURI:          getEnv("SHOP_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("SHOP_MONGO_DB", "shop"),
		RedisAddr:         getEnv("SHOP_REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      splitNonEmpty(getEnv("SHOP_KAFKA_BROKERS", "")),
		PaymentAPIURL:     getEnv("SHOP_PAYMENT_API_URL", "https://api.stripe.com"),
		PaymentAPIKey:     getEnv("SHOP_PAYMENT_API_KEY", ""),
		JWTSecret:         getEnv("SHOP_JWT_SECRET", ""),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		SchedulerInterval: getDurationEnv("SHOP_SCHEDULER_INTERVAL", 15*time.Second),
		ProcessingDelay:   getDurationEnv("SHOP_PROCESSING_DELAY", 30*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration in %s, using default %v", key, defaultValue)
	}
	return defaultValue
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	cfg := loadConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("SHOP_JWT_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := repository.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	connectCancel()
	if err != nil {
		log.Fatalf("mongo connection failed: %v", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect error: %v", err)
		}
	}()

	indexCtx, indexCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := repository.EnsureIndexes(indexCtx, db); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}
	indexCancel()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cartCache := cache.NewRedisCache(redisClient)

	var notifier notify.Notifier = notify.NoopNotifier{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	var gateway payment.Gateway
	if cfg.PaymentAPIKey != "" {
		gateway = payment.NewHTTPGateway(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	} else {
		log.Println("SHOP_PAYMENT_API_KEY not set, using mock payment gateway")
		gateway = payment.NewMockGateway()
	}

	carts := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	categories := repository.NewCategoryRepository(db)
	ledger := stock.NewMongoLedger(db)

	cartService := service.NewCartService(carts, products, cartCache)
	checkoutService := service.NewCheckoutService(users, carts, products, orders, tasks, ledger, gateway, notifier, cartCache)
	checkoutService.ProcessingDelay = cfg.ProcessingDelay
	categoryService := service.NewCategoryService(categories)

	runner := scheduler.NewRunner(tasks, orders, cfg.SchedulerInterval)
	go runner.Run(ctx)

	router := httpapi.NewRouter(cartService, checkoutService, categoryService, []byte(cfg.JWTSecret), cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("shop-backend listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel() // stops the task runner

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
