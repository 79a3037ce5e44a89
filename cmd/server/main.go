package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"bearh/internal/database"
	"bearh/internal/delivery/channels"
	"bearh/internal/global"
	"bearh/internal/logger"
	"bearh/internal/worker"
)

// initLogger khởi tạo logger cho toàn bộ ứng dụng (đọc cấu hình từ biến môi trường)
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

func main() {
	initLogger()
	InitGlobal()
	InitRegistry()

	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig
	loc := loadLocation(cfg.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := InitServices(loc)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	if err := InitDefaultData(ctx, services); err != nil {
		log.Fatalf("Failed to initialize default data: %v", err)
	}

	// Lịch tính thưởng chạy trên goroutine của cron, không chặn request
	services.Scheduler.Start(ctx)

	var alerter channels.Alerter = channels.LogAlerter{}
	if cfg.SMTPEnabled() {
		alerter = channels.NewMailAlerter(cfg, loc)
	}
	monitor := worker.NewPrimeMonitorWorker(services.PrimeJobs, services.Scheduler, alerter,
		time.Duration(cfg.PrimeMonitor_IntervalSec)*time.Second)
	go monitor.Start(ctx)

	app, err := InitFiberApp(services)
	if err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	address := ":" + cfg.Address
	log.WithField("address", address).Info("Starting server with HTTP")
	if err := app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Errorf("Error in Fiber Listen: %v", err)
	}

	_ = database.CloseInstance(global.MongoDB_Session)
}
