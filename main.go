package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	httpapi "github.com/yourorg/parking-api/http"
	"github.com/yourorg/parking-api/internal/auth"
	"github.com/yourorg/parking-api/internal/cache"
	"github.com/yourorg/parking-api/internal/clock"
	"github.com/yourorg/parking-api/internal/config"
	"github.com/yourorg/parking-api/internal/logger"
	"github.com/yourorg/parking-api/internal/parking"
	"github.com/yourorg/parking-api/internal/search"
	"github.com/yourorg/parking-api/tdx"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	clk := clock.System{}
	client := tdx.NewClient(cfg.ClientID, cfg.ClientSecret)
	tokens := auth.NewManager(client, clk, zlog)

	metadata := cache.NewMetadata(func(ctx context.Context, city parking.City) ([]parking.Lot, error) {
		token, err := tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := client.CarParks(ctx, token, string(city))
		if err != nil {
			return nil, err
		}
		return tdx.MapCarParks(raw, city)
	}, zlog)

	availability := cache.NewAvailability(func(ctx context.Context, city parking.City) ([]parking.LotAvailability, error) {
		token, err := tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := client.Availability(ctx, token, string(city))
		if err != nil {
			return nil, err
		}
		return tdx.MapAvailability(raw)
	}, clk, cache.DefaultAvailabilityTTL, zlog)

	svc := &search.Service{Availability: availability, Metadata: metadata, Log: zlog}
	router := BuildRouter(httpapi.SearchDeps{Search: svc, Log: zlog}, zlog)

	zlog.Info("parking-api listening", zap.Int("port", cfg.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
