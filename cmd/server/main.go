package main

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abdurrazzak7395/travelapi/internal/aggregator"
	"github.com/abdurrazzak7395/travelapi/internal/cache"
	"github.com/abdurrazzak7395/travelapi/internal/config"
	"github.com/abdurrazzak7395/travelapi/internal/handler"
	"github.com/abdurrazzak7395/travelapi/internal/ratelimit"
	"github.com/abdurrazzak7395/travelapi/internal/supplier"
)

func main() {
	cfg := config.Load()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	suppliers, pricers, balances, err := initializeSuppliers(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize suppliers: %v", err)
	}
	log.Printf("Initialized %d flight suppliers", len(suppliers))

	rateLimiter := ratelimit.NewSupplierLimiterWithDefaults()
	rateLimiter.SetSupplierLimit("bdfare", 20, 30)
	rateLimiter.SetSupplierLimit("flyhub", 15, 25)

	agg := aggregator.New(suppliers, aggregator.Config{
		RateLimiter: rateLimiter,
	})

	var offerCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		offerCache = redisCache
		log.Printf("Redis offer cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		offerCache = cache.NewNoOpCache()
		log.Println("Offer cache disabled")
	}

	searchHandler := handler.NewSearchHandler(agg, offerCache, pricers)

	api := e.Group("/api")
	combined := api.Group("/combined")
	combined.POST("/search", searchHandler.CombinedSearch)
	combined.POST("/offer-price", searchHandler.OfferPrice)
	e.POST("/combined-search", searchHandler.CombinedSearch)

	for name, checker := range balances {
		api.GET("/"+name+"/balance", handler.Balance(name, checker))
	}

	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting combined flight search server on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initializeSuppliers builds every configured supplier in dispatch order.
// A supplier with none of its variables set is skipped; a partially
// configured one is an error.
func initializeSuppliers(cfg config.Config) ([]supplier.Supplier, map[string]supplier.Pricer, map[string]supplier.BalanceChecker, error) {
	var suppliers []supplier.Supplier
	pricers := make(map[string]supplier.Pricer)
	balances := make(map[string]supplier.BalanceChecker)

	if cfg.BDFare.Configured() {
		bdfare, err := supplier.NewBDFare(supplier.BDFareConfig{
			BaseURL: cfg.BDFare.BaseURL,
			APIKey:  cfg.BDFare.APIKey,
			Timeout: cfg.BDFare.Timeout,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		suppliers = append(suppliers, bdfare)
		pricers[bdfare.Name()] = bdfare
		balances[bdfare.Name()] = bdfare
	}

	if cfg.FlyHub.Configured() {
		flyhub, err := supplier.NewFlyHub(supplier.FlyHubConfig{
			BaseURL:   cfg.FlyHub.BaseURL,
			Username:  cfg.FlyHub.Username,
			APIKey:    cfg.FlyHub.APIKey,
			EndUserIP: cfg.FlyHub.EndUserIP,
			Timeout:   cfg.FlyHub.Timeout,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		suppliers = append(suppliers, flyhub)
		pricers[flyhub.Name()] = flyhub
		balances[flyhub.Name()] = flyhub
	}

	if len(suppliers) == 0 {
		return nil, nil, nil, errors.New("no suppliers configured: set BDFARE_* and/or FLYHUB_* environment variables")
	}
	return suppliers, pricers, balances, nil
}
