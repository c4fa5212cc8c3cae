package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
)

// StorageType 存储类型
type StorageType string

const (
	StorageTypeMinio StorageType = "minio"
	StorageTypeLocal StorageType = "local"
)

var storageType StorageType

// SetStorageType 设置存储类型
func SetStorageType(storageTypeVal StorageType) {
	storageType = storageTypeVal
}

// GetStorageType 获取存储类型
func GetStorageType() StorageType {
	return storageType
}

// InitStorage 初始化存储系统。Synthesized audio clips are the only stored
// artifacts; everything else in the service is text.
func InitStorage() {
	ctx := gctx.New()

	storageTypeStr := g.Cfg().MustGet(ctx, "storage.type", "local").String()

	switch storageTypeStr {
	case "minio":
		endpoint := g.Cfg().MustGet(ctx, "minio.endpoint", "").String()
		if endpoint == "" {
			SetStorageType(StorageTypeLocal)
			g.Log().Infof(ctx, "MinIO not configured, using local audio storage")
			initUploadDirectories(ctx)
			return
		}
		accessKey := g.Cfg().MustGet(ctx, "minio.accessKey").String()
		secretKey := g.Cfg().MustGet(ctx, "minio.secretKey").String()
		bucketName := g.Cfg().MustGet(ctx, "minio.bucketName", "janani-audio").String()
		ssl := g.Cfg().MustGet(ctx, "minio.ssl", false).Bool()

		if err := InitMinio(ctx, endpoint, accessKey, secretKey, bucketName, ssl); err != nil {
			g.Log().Fatalf(ctx, "failed to initialize MinIO audio storage: %v", err)
			return
		}
		SetStorageType(StorageTypeMinio)
		g.Log().Infof(ctx, "Using MinIO audio storage as configured")
	default:
		SetStorageType(StorageTypeLocal)
		g.Log().Infof(ctx, "Using local audio storage")
		initUploadDirectories(ctx)
	}
}

// initUploadDirectories 初始化 upload 目录结构
func initUploadDirectories(ctx context.Context) {
	dir := filepath.Join("upload", "audio")
	if err := os.MkdirAll(dir, 0755); err != nil {
		g.Log().Warningf(ctx, "Failed to create directory %s: %v", dir, err)
	}
}
