package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"cvforge/internal/config"
	"cvforge/internal/database"
	"cvforge/internal/storage"
	"cvforge/internal/store"
)

func main() {
	var (
		seedTemplates  = flag.Bool("seed-templates", false, "迁移数据库并写入默认模板目录（已存在的模板保持不变）")
		check          = flag.Bool("check", false, "检查数据表与模板预览图是否就绪，不做任何修改")
		uploadPreviews = flag.String("upload-previews", "", "将目录中的模板预览图上传到对象存储（文件名需与预览 key 一致）")
	)
	flag.Parse()

	if !*seedTemplates && !*check && *uploadPreviews == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if *seedTemplates {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		inserted, err := store.NewGormTemplateStore(db).Seed(ctx, database.DefaultTemplates)
		if err != nil {
			log.Fatalf("seed templates: %v", err)
		}
		fmt.Printf("模板目录已写入：新增 %d 条，共 %d 条默认模板\n", inserted, len(database.DefaultTemplates))
	}

	var storageClient *storage.Client
	if *check || *uploadPreviews != "" {
		if cfg.MinIO.Enabled() {
			storageClient, err = storage.NewClient(ctx, cfg.MinIO)
			if err != nil {
				log.Fatalf("init storage client: %v", err)
			}
		} else if *uploadPreviews != "" {
			log.Fatal("upload-previews requires MINIO_ENDPOINT")
		}
	}

	if *uploadPreviews != "" {
		if err := uploadPreviewImages(ctx, storageClient, *uploadPreviews); err != nil {
			log.Fatalf("upload previews: %v", err)
		}
	}

	if *check {
		if ok := runChecks(ctx, db, storageClient); !ok {
			os.Exit(1)
		}
	}
}

// runChecks 打印表与预览图状态，全部就绪时返回 true。
func runChecks(ctx context.Context, db *gorm.DB, storageClient *storage.Client) bool {
	ok := true
	for _, table := range database.CheckTables(db) {
		state := "ok"
		if !table.Exists {
			state = "missing"
			ok = false
		}
		fmt.Printf("table %-16s %s\n", table.Name, state)
	}

	templates, err := store.NewGormTemplateStore(db).ListActive(ctx)
	if err != nil {
		fmt.Printf("templates          error: %v\n", err)
		return false
	}
	fmt.Printf("active templates   %d\n", len(templates))

	if storageClient == nil {
		fmt.Println("previews           skipped (object storage not configured)")
		return ok
	}
	for _, t := range templates {
		if !storage.IsObjectKey(t.PreviewURL) {
			continue
		}
		exists, err := storageClient.ObjectExists(ctx, t.PreviewURL)
		switch {
		case err != nil:
			fmt.Printf("preview %-10s error: %v\n", t.ID, err)
			ok = false
		case !exists:
			fmt.Printf("preview %-10s missing %s\n", t.ID, t.PreviewURL)
			ok = false
		default:
			fmt.Printf("preview %-10s ok\n", t.ID)
		}
	}
	return ok
}

// uploadPreviewImages 按默认模板目录中的 key 查找同名文件并上传。
func uploadPreviewImages(ctx context.Context, storageClient *storage.Client, dir string) error {
	for _, t := range database.DefaultTemplates {
		if !storage.IsObjectKey(t.PreviewURL) {
			continue
		}
		localPath := filepath.Join(dir, path.Base(t.PreviewURL))
		if err := uploadOne(ctx, storageClient, localPath, t.PreviewURL); err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("skip %s: %s not found\n", t.PreviewURL, localPath)
				continue
			}
			return err
		}
		fmt.Printf("uploaded %s\n", t.PreviewURL)
	}
	return nil
}

func uploadOne(ctx context.Context, storageClient *storage.Client, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return storageClient.UploadFile(ctx, key, f, info.Size(), contentType)
}
