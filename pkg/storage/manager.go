package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopfront/config"
)

// NewFromConfig returns the disk selected by STORAGE_DISK.
func NewFromConfig(ctx context.Context) (Disk, error) {
	switch name := config.StorageDefault(); name {
	case "local", "":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}
