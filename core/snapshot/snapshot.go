package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"parking-sync/core/reconcile"
	"parking-sync/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Object names inside the bucket.
const (
	LatestObject  = "snapshots/latest.json"
	HistoryPrefix = "snapshots/history/"
)

const historyLayout = "20060102T150405.000Z"

// ErrNoSnapshot is returned by Latest before anything was archived.
var ErrNoSnapshot = errors.New("no snapshot archived")

// Document is the archived content of one refresh.
type Document struct {
	TakenAt    time.Time                `json:"taken_at"`
	Report     *reconcile.RefreshReport `json:"report"`
	Facilities []reconcile.Facility     `json:"facilities"`
}

// Archiver writes refresh snapshots to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	retain int
	logger *zap.Logger
	now    func() time.Time
}

// New creates an archiver writing to cfg.Bucket.
func New(client storage.Client, cfg storage.Config, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		client: client,
		bucket: cfg.Bucket,
		retain: cfg.Retain,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Snapshot bucket created", zap.String("bucket", a.bucket))
	return nil
}

// Record archives the facilities a refresh was computed from.
func (a *Archiver) Record(ctx context.Context, report *reconcile.RefreshReport) error {
	if report == nil {
		return nil
	}
	takenAt := a.now().UTC()
	doc := Document{
		TakenAt:    takenAt,
		Report:     report,
		Facilities: report.Facilities,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := a.put(ctx, LatestObject, data); err != nil {
		return err
	}
	if a.retain <= 0 {
		return nil
	}

	if err := a.put(ctx, HistoryPrefix+takenAt.Format(historyLayout)+".json", data); err != nil {
		return err
	}
	return a.prune(ctx)
}

// Latest reads back the last archived snapshot.
func (a *Archiver) Latest(ctx context.Context) (*Document, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, LatestObject, minio.GetObjectOptions{})
	if err != nil {
		return nil, a.readError(err)
	}
	defer obj.Close()

	// minio reports a missing key on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, a.readError(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &doc, nil
}

// History lists archived timestamped snapshots, newest first.
func (a *Archiver) History(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: HistoryPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	// Timestamps in the key sort lexically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (a *Archiver) put(ctx context.Context, name string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (a *Archiver) prune(ctx context.Context) error {
	names, err := a.History(ctx)
	if err != nil {
		return err
	}
	if len(names) <= a.retain {
		return nil
	}

	for _, name := range names[a.retain:] {
		if err := a.client.RemoveObject(ctx, a.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	a.logger.Debug("Pruned snapshots", zap.Int("removed", len(names)-a.retain))
	return nil
}

func (a *Archiver) readError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNoSnapshot
	}
	return fmt.Errorf("failed to read snapshot: %w", err)
}
