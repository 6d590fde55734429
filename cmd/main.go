package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pricelist/internal/assets"
	"pricelist/internal/config"
	httpapi "pricelist/internal/http"
	"pricelist/internal/repository"
	"pricelist/internal/service"

	_ "pricelist/docs"
)

// @title Price List API
// @version 1.0
// @description Grocery price list storefront: catalog, orders, admin order management.
// @BasePath /api
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	var (
		items    repository.ItemRepository
		accounts repository.AccountRepository
		orders   repository.OrderRepository
		tx       repository.TxManager
	)
	if cfg.SQLitePath != "" {
		store, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("open sqlite store", zap.Error(err), zap.String("path", cfg.SQLitePath))
		}
		defer store.Close()
		items, accounts, orders, tx = store.Items(), store.Accounts(), store.Orders(), store
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
	} else {
		store := repository.NewMemoryStore()
		items = store
		accounts = repository.NewMemoryAccounts(store)
		orders = repository.NewMemoryOrders(store)
		tx = repository.NewMemoryTx(store)
		logger.Info("using in-memory store")
	}

	uploads, err := assets.NewDir(cfg.UploadDir)
	if err != nil {
		logger.Fatal("init upload dir", zap.Error(err))
	}

	accountsSvc := service.NewAccountService(accounts, cfg.AdminCode)
	catalogSvc := service.NewCatalogService(items)
	ordersSvc := service.NewOrderService(items, orders, tx)

	srv := httpapi.NewServer(accountsSvc, catalogSvc, ordersSvc, uploads)
	srv.Engine().Static("/uploads", cfg.UploadDir)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
