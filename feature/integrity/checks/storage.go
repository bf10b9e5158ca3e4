package checks

import (
	"context"
	"fmt"
	"strings"

	"parking-sync/core/snapshot"
	"parking-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the snapshot bucket.
type StorageReport struct {
	Enabled        bool   `json:"enabled"`
	Bucket         string `json:"bucket"`
	BucketExists   bool   `json:"bucket_exists"`
	LatestSnapshot bool   `json:"latest_snapshot"`
	History        int    `json:"history"`
}

// CheckStorage inspects the snapshot bucket. A nil client means storage is disabled.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket}
	if client == nil {
		return report, nil
	}
	report.Enabled = true

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Prefix: "snapshots/", Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		switch {
		case obj.Key == snapshot.LatestObject:
			report.LatestSnapshot = true
		case strings.HasPrefix(obj.Key, snapshot.HistoryPrefix):
			report.History++
		}
	}
	return report, nil
}

// FixStorage creates the snapshot bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if client == nil {
		return fmt.Errorf("snapshot storage is disabled")
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created bucket", zap.String("bucket", bucket))
	return nil
}
