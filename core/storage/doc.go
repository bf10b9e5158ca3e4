// Package storage wraps the MinIO client used to archive refresh snapshots.
//
// The Client interface covers the few bucket and object calls the snapshot
// archiver needs, so tests can swap in core/storage/mocks. Any S3 compatible
// service works.
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
