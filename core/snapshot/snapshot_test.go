package snapshot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"parking-sync/core/reconcile"
	"parking-sync/core/storage"
	"parking-sync/core/storage/mocks"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newArchiver(client *mocks.Client, retain int) *Archiver {
	a := New(client, storage.Config{Bucket: "parking-snapshots", Retain: retain}, nil)
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return a
}

func testReport() *reconcile.RefreshReport {
	return &reconcile.RefreshReport{
		Devices: 1,
		Updated: 8,
		Facilities: []reconcile.Facility{{
			Name:        "P1",
			Summary:     map[string]int{"Free": 10, "Occupied": 5},
			Levels:      []reconcile.Level{{Name: "L1", Counts: map[string]int{"Free": 10}}},
			Occupations: map[string]bool{"Occupation-S1": true},
		}},
	}
}

func objectList(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "parking-snapshots").Return(true, nil)

		require.NoError(t, newArchiver(client, 0).EnsureBucket(ctx))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "parking-snapshots").Return(false, nil)
		client.On("MakeBucket", ctx, "parking-snapshots", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, newArchiver(client, 0).EnsureBucket(ctx))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "parking-snapshots").Return(false, errors.New("denied"))

		err := newArchiver(client, 0).EnsureBucket(ctx)
		assert.ErrorContains(t, err, "denied")
	})
}

func TestRecord_LatestOnly(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	var uploaded []byte
	client.On("PutObject", ctx, "parking-snapshots", LatestObject, mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			uploaded = data
			assert.Equal(t, int64(len(data)), args.Get(4).(int64))
			assert.Equal(t, "application/json", args.Get(5).(minio.PutObjectOptions).ContentType)
		}).
		Return(minio.UploadInfo{}, nil).Once()

	require.NoError(t, newArchiver(client, 0).Record(ctx, testReport()))
	client.AssertExpectations(t)

	var doc Document
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, 8, doc.Report.Updated)
	require.Len(t, doc.Facilities, 1)
	assert.Equal(t, "P1", doc.Facilities[0].Name)
	assert.True(t, doc.Facilities[0].Occupations["Occupation-S1"])
}

func TestRecord_HistoryAndPrune(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	historyKey := HistoryPrefix + "20240501T123000.000Z.json"

	client.On("PutObject", ctx, "parking-snapshots", LatestObject, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", ctx, "parking-snapshots", historyKey, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("ListObjects", ctx, "parking-snapshots", minio.ListObjectsOptions{Prefix: HistoryPrefix, Recursive: true}).
		Return(objectList(
			HistoryPrefix+"20240501T113000.000Z.json",
			historyKey,
			HistoryPrefix+"20240501T120000.000Z.json",
		))
	client.On("RemoveObject", ctx, "parking-snapshots", HistoryPrefix+"20240501T113000.000Z.json", minio.RemoveObjectOptions{}).
		Return(nil).Once()

	require.NoError(t, newArchiver(client, 2).Record(ctx, testReport()))
	client.AssertExpectations(t)
}

func TestRecord_UploadError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("PutObject", ctx, "parking-snapshots", LatestObject, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	err := newArchiver(client, 5).Record(ctx, testReport())
	assert.ErrorContains(t, err, "connection refused")
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		body := `{"taken_at":"2024-05-01T12:30:00Z","report":{"devices":1,"updated":8},"facilities":[{"name":"P1"}]}`
		client.On("GetObject", ctx, "parking-snapshots", LatestObject, minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader(body)), nil)

		doc, err := newArchiver(client, 0).Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8, doc.Report.Updated)
		assert.Equal(t, "P1", doc.Facilities[0].Name)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "parking-snapshots", LatestObject, minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})

		_, err := newArchiver(client, 0).Latest(ctx)
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("Corrupt", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "parking-snapshots", LatestObject, minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader("{")), nil)

		_, err := newArchiver(client, 0).Latest(ctx)
		assert.ErrorContains(t, err, "failed to decode snapshot")
	})
}
