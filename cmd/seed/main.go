package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/globalaidnetwork/internal/config"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/seed"
)

// 示例内容生成器
func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture to load; the embedded starter content is used when empty")
	flag.Parse()

	cfg := config.Load()
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	if err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	var (
		fixture *seed.Fixture
		err     error
		files   = os.DirFS(".")
	)
	if *fixturePath == "" {
		fixture, err = seed.DefaultFixture()
	} else {
		dir, name := filepath.Split(*fixturePath)
		if dir == "" {
			dir = "."
		}
		files = os.DirFS(dir)
		fixture, err = seed.LoadFixture(files, name)
	}
	if err != nil {
		log.Fatalf("failed to load fixture: %v", err)
	}

	result, err := seed.New(db.DB, files, cfg.UploadDir, cfg.UploadURLPath).Run(fixture)
	if err != nil {
		if errors.Is(err, seed.ErrAlreadySeeded) {
			log.Println("[seed] 页面已存在，跳过创建")
			return
		}
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("[seed] done, home page id %d", result.PageID)
}
