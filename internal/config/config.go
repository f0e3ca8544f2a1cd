package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseDSN       string
	SessionSecret     string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	SuperRootUserName string
	SuperRootPassword string
	HomePageSlug      string
	// CORSAllowedOrigins 为公开 JSON 接口允许的来源；为空时允许所有来源
	CORSAllowedOrigins  []string
	UploadSweepSchedule string
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供安全的默认值。
// 已存在的环境变量优先于 .env 中的同名项。
func Load(envFiles ...string) AppConfig {
	loadEnvFiles(envFiles...)

	port := envOrDefault("PORT", "8080")
	listenAddr := envOrDefault("LISTEN_ADDR", fmt.Sprintf(":%s", port))
	driver := strings.ToLower(envOrDefault("DATABASE_DRIVER", "sqlite"))
	databasePath := envOrDefault("DATABASE_PATH", "globalaid.db")

	// DATABASE_DSN 优先；sqlite 未设置时回退到 DATABASE_PATH
	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" && driver == "sqlite" {
		dsn = databasePath
	}

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabaseDriver:      driver,
		DatabasePath:        databasePath,
		DatabaseDSN:         dsn,
		SessionSecret:       envOrDefault("SESSION_SECRET", "globalaid-dev-secret"),
		GinMode:             envOrDefault("GIN_MODE", "release"),
		UploadDir:           envOrDefault("UPLOAD_DIR", "web/uploads"),
		UploadURLPath:       envOrDefault("UPLOAD_URL_PATH", "/uploads"),
		SuperRootUserName:   strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword:   strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
		HomePageSlug:        envOrDefault("HOME_PAGE_SLUG", "home"),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		UploadSweepSchedule: envOrDefault("UPLOAD_SWEEP_SCHEDULE", "@hourly"),
	}
}

func loadEnvFiles(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[config] failed to load %s: %v", file, err)
		}
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
