package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/errors"
)

// SaveAudioToLocal writes a synthesized clip under upload/audio/<userID>/ and
// returns the relative path the HTTP layer serves it from.
func SaveAudioToLocal(ctx context.Context, userID string, fileName string, data []byte) (finalPath string, err error) {
	targetDir := filepath.Join("upload", "audio", userID)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", targetDir, err)
		return "", errors.Newf(errors.ErrAudioStoreFailed, "failed to create directory %s: %v", targetDir, err)
	}

	finalPath = filepath.Join(targetDir, fileName)

	if err := os.WriteFile(finalPath, data, 0644); err != nil {
		g.Log().Errorf(ctx, "Failed to write audio file %s: %v", finalPath, err)
		_ = os.Remove(finalPath)
		return "", errors.Newf(errors.ErrAudioStoreFailed, "failed to write audio file %s: %v", finalPath, err)
	}

	g.Log().Infof(ctx, "Audio saved to local storage: %s", finalPath)
	return finalPath, nil
}

// DeleteLocalAudio removes every stored clip for one user. Part of profile
// purge.
func DeleteLocalAudio(ctx context.Context, userID string) error {
	targetDir := filepath.Join("upload", "audio", userID)
	if err := os.RemoveAll(targetDir); err != nil {
		return errors.Newf(errors.ErrAudioStoreFailed, "failed to delete audio directory %s: %v", targetDir, err)
	}
	return nil
}
