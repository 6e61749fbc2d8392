package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/lock"
	"elearn/logger"
	"elearn/notify"
	"elearn/routers"
	progressService "elearn/services/progress"
	"elearn/utils"
)

func main() {
	cfg := config.LoadConfig()

	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(cfg); err != nil {
		logger.Log.Fatal("Failed to connect database", "error", err)
	}
	if err := database.EnsureAdmin(database.Database.Db, cfg.AdminEmail, cfg.AdminPassword, cfg.SaltRound); err != nil {
		logger.Log.Fatal("Failed to bootstrap admin", "error", err)
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Log.Fatal("Failed to connect redis", "error", err)
		}
		defer client.Close()
		// the local mutex keeps same-process writers off redis
		locker = lock.Chain{locker, lock.NewRedisLocker(client)}
		logger.Log.Info("Distributed progress lock enabled")
	}

	svc := progressService.Init(database.Database.Db, locker, notify.New(cfg.CompletionWebhookURL))

	scheduler, err := utils.InitializeProgressScheduler(cfg, svc)
	if err != nil {
		logger.Log.Fatal("Failed to start scheduler", "error", err)
	}

	app := routers.NewApp(cfg, true)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down...")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Log.Info("Server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server stopped", "error", err)
	}
}
