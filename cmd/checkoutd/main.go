package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/monsterstore/checkout/internal/basket"
	basketrepo "github.com/monsterstore/checkout/internal/basket/repository"
	"github.com/monsterstore/checkout/internal/basket/repository/redisrepo"
	"github.com/monsterstore/checkout/internal/catalog"
	"github.com/monsterstore/checkout/internal/checkout"
	"github.com/monsterstore/checkout/internal/checkout/httpx"
	"github.com/monsterstore/checkout/internal/order/repository/sqliterepo"
	"github.com/monsterstore/checkout/internal/payment/stripesim"
	"github.com/monsterstore/checkout/internal/pkg/config"
	"github.com/monsterstore/checkout/internal/pkg/lock"
	"github.com/monsterstore/checkout/internal/pkg/lock/redislocker"
	"github.com/monsterstore/checkout/internal/pkg/telemetry"
	"github.com/monsterstore/checkout/internal/pricing"
)

func main() {
	cfg := config.Load()

	telemetry.InitLogger()

	ctx := context.Background()
	shutdownTracer, err := telemetry.SetupTracer(ctx, "checkoutd")
	if err != nil {
		log.Fatalf("tracer setup failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	orders, err := sqliterepo.Open(cfg.OrdersDBPath)
	if err != nil {
		log.Fatalf("order store open failed: %v", err)
	}
	defer orders.Close()

	var baskets basketrepo.Repository
	var locker lock.Locker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		baskets = redisrepo.New(client, cfg.BasketTTL)
		locker = redislocker.New(client)
	} else {
		baskets = basketrepo.NewMemoryRepository()
		locker = lock.NewKeyedMutex()
	}

	calc := pricing.NewCalculator(pricing.Config{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatDeliveryFee:       cfg.FlatDeliveryFee,
	})

	// Development catalog fixture; the real catalog service owns product
	// pricing and is consulted only at add-to-basket time.
	cat := catalog.NewStatic([]catalog.Product{
		{ID: "prod-keyboard", Name: "Mechanical Keyboard", ImageURL: "https://img.example/keyboard.png", Price: 4000},
		{ID: "prod-mouse", Name: "Wireless Mouse", ImageURL: "https://img.example/mouse.png", Price: 1500},
		{ID: "prod-monitor", Name: "27in Monitor", ImageURL: "https://img.example/monitor.png", Price: 12000},
	})

	basketSvc := basket.NewService(baskets, cat)
	checkoutSvc := checkout.NewService(baskets, orders, stripesim.New(), calc, locker, checkout.Config{
		Currency:    cfg.Currency,
		MethodTypes: cfg.PaymentMethodTypes,
		LockTTL:     cfg.LockTTL,
	})

	handler := httpx.NewHandler(basketSvc, checkoutSvc)
	router := httpx.NewRouter(handler)

	log.Printf("checkoutd running on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}
