package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/trendline-shop/storefront/internal/cart"
	"github.com/trendline-shop/storefront/internal/catalog"
	"github.com/trendline-shop/storefront/internal/checkout"
	"github.com/trendline-shop/storefront/internal/config"
	"github.com/trendline-shop/storefront/internal/localstore"
	"github.com/trendline-shop/storefront/internal/mailer"
	"github.com/trendline-shop/storefront/internal/orders"
	"github.com/trendline-shop/storefront/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Product cache is optional; the storefront works without redis.
	var productCache catalog.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis ping failed, continuing without product cache: %v", err)
		} else {
			productCache = catalog.NewRedisCache(redisClient)
			log.Printf("Product cache enabled at %s", cfg.RedisAddr)
		}
	}

	catalogClient := catalog.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout, productCache)
	ordersClient := orders.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout)
	log.Printf("Using e-commerce API at %s", cfg.APIBaseURL)

	store := localstore.NewFileStore(cfg.CartFile)
	cartService := cart.NewService(store, catalogClient)

	adminMailer, err := buildMailer(cfg)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	submitter := checkout.NewSubmitter(cartService, ordersClient, adminMailer, cfg.DeliveryCharge)

	cartHandler := web.NewCartHandler(cartService, cfg.DeliveryCharge, cfg.RequestTimeout)
	productHandler := web.NewProductHandler(catalogClient, cfg.RequestTimeout)
	checkoutHandler := web.NewCheckoutHandler(submitter, cfg.RequestTimeout)
	adminHandler := web.NewAdminHandler(ordersClient, cfg.RequestTimeout)

	router := web.NewRouter(cartHandler, productHandler, checkoutHandler, adminHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE stream stays open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	// Let in-flight admin notifications finish before exit.
	if err := submitter.Shutdown(shutdownCtx); err != nil {
		log.Printf("pending notifications abandoned: %v", err)
	}

	log.Println("server exited")
}

func buildMailer(cfg *config.Config) (mailer.Mailer, error) {
	switch cfg.MailerProvider {
	case "":
		log.Println("Admin notifications disabled")
		return nil, nil
	case "emailjs":
		if cfg.EmailJSServiceID == "" || cfg.EmailJSTemplateID == "" || cfg.EmailJSPublicKey == "" {
			return nil, fmt.Errorf("emailjs mailer requires EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY")
		}
		return mailer.NewEmailJSClient(
			cfg.EmailJSEndpoint,
			cfg.EmailJSServiceID,
			cfg.EmailJSTemplateID,
			cfg.EmailJSPublicKey,
			cfg.AdminEmail,
			cfg.NotifyTimeout,
		), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" || cfg.SendGridFrom == "" {
			return nil, fmt.Errorf("sendgrid mailer requires SENDGRID_API_KEY and SENDGRID_FROM")
		}
		return mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.AdminEmail), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.MailerProvider)
	}
}
