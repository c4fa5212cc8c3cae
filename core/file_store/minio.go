package file_store

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/janani-health/janani/core/errors"
)

type MinioConfig struct {
	Client     *minio.Client
	BucketName string
}

var minioConfig MinioConfig

// InitMinio 初始化 MinIO 存储
func InitMinio(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, ssl bool) error {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to create MinIO client: %v", err)
	}

	minioConfig = MinioConfig{
		Client:     client,
		BucketName: bucketName,
	}

	// 创建 bucket，如果已存在则跳过
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to check if bucket exists: %v", err)
	}
	if exists {
		g.Log().Printf(ctx, "Bucket '%s' already exists, skipping creation.", bucketName)
		return nil
	}

	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: ""}); err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to create bucket: %v", err)
	}
	g.Log().Printf(ctx, "Created bucket '%s'", bucketName)
	return nil
}

// GetMinioConfig 获取MinIO配置
func GetMinioConfig() *MinioConfig {
	return &minioConfig
}

// SaveAudioToMinio uploads one synthesized clip and returns the object key.
func SaveAudioToMinio(ctx context.Context, userID string, fileName string, data []byte) (objectKey string, err error) {
	objectKey = path.Join("audio", userID, fileName)

	_, err = minioConfig.Client.PutObject(ctx, minioConfig.BucketName, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "audio/mpeg"})
	if err != nil {
		g.Log().Errorf(ctx, "Failed to upload audio to MinIO: %v", err)
		return "", errors.Newf(errors.ErrAudioStoreFailed, "failed to upload audio: %v", err)
	}

	g.Log().Infof(ctx, "Audio uploaded to MinIO: bucket=%s, key=%s", minioConfig.BucketName, objectKey)
	return objectKey, nil
}

// DeleteMinioAudio removes every stored clip for one user. Part of profile
// purge.
func DeleteMinioAudio(ctx context.Context, userID string) error {
	prefix := path.Join("audio", userID) + "/"

	objectCh := minioConfig.Client.ListObjects(ctx, minioConfig.BucketName,
		minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
	for object := range objectCh {
		if object.Err != nil {
			return errors.Newf(errors.ErrAudioStoreFailed, "failed to list audio objects: %v", object.Err)
		}
		if err := minioConfig.Client.RemoveObject(ctx, minioConfig.BucketName, object.Key,
			minio.RemoveObjectOptions{}); err != nil {
			return errors.Newf(errors.ErrAudioStoreFailed, "failed to delete object %s: %v", object.Key, err)
		}
	}
	return nil
}

// AudioObjectURL builds the public URL for a stored object key.
func AudioObjectURL(objectKey string) string {
	scheme := "http"
	if minioConfig.Client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, minioConfig.Client.EndpointURL().Host, minioConfig.BucketName, objectKey)
}
