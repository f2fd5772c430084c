package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/minio/minio-go/v7"
)

// ObjectPutter is the part of *minio.Client the sink uses.
type ObjectPutter interface {
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// MinioSink archives every update as its own JSON object named "<cab>/<unix nanos>.json".
type MinioSink struct {
	cabID  string
	client ObjectPutter
	bucket string
	now    clock
}

func NewMinioSink(cabID string, client ObjectPutter, bucket string) *MinioSink {
	return &MinioSink{cabID: cabID, client: client, bucket: bucket, now: utcNow}
}

// ObjectName returns the archive object name for an update.
func ObjectName(update models.LocationUpdate) string {
	return fmt.Sprintf("%s/%d.json", update.CabID, update.RecordedAt.UnixNano())
}

func (ms *MinioSink) UpdateLocation(ctx context.Context, coordinates string) error {
	update := models.LocationUpdate{CabID: ms.cabID, Coordinates: coordinates, RecordedAt: ms.now()}
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode location update: %w", err)
	}

	_, err = ms.client.PutObject(
		ctx,
		ms.bucket,
		ObjectName(update),
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to archive location update: %w", err)
	}

	return nil
}
