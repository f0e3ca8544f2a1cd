package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/config"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/router"
	"github.com/globalaidnetwork/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 定期清理没有图片记录的上传文件
	sweeper, err := service.StartUploadSweepCron(
		service.NewImageService(db.DB, cfg.UploadDir, cfg.UploadURLPath),
		cfg.UploadSweepSchedule,
	)
	if err != nil {
		log.Fatalf("invalid UPLOAD_SWEEP_SCHEDULE: %v", err)
	}
	if sweeper != nil {
		defer sweeper.Stop()
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
		HomeSlug:      cfg.HomePageSlug,
		CORSOrigins:   cfg.CORSAllowedOrigins,
	})
	log.Printf("[server] listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
