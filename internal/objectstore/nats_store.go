// Package objectstore provides a NATS-based implementation of the
// core.ObjectStore interface, used to hold rendered ad audio.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const audioContentType = "audio/wav"

// NatsObjectStore stores rendered audio artifacts in a NATS JetStream
// object store bucket.
type NatsObjectStore struct {
	bucket string
	store  nats.ObjectStore
}

// New creates a NatsObjectStore. The bucket is created on first use; when it
// already exists the store binds to it instead.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsObjectStore, error) {
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Rendered ad audio for the %s bucket.", bucketName),
		TTL:         0,
		MaxBytes:    0,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Placement:   nil,
		Metadata:    nil,
		Compression: false,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create audio bucket '%s': %w", bucketName, err)
		}

		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to existing audio bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsObjectStore{
		bucket: bucketName,
		store:  store,
	}, nil
}

// Download retrieves a rendered audio object from the bucket.
func (n *NatsObjectStore) Download(_ context.Context, key string) ([]byte, error) {
	obj, err := n.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio '%s' from bucket '%s': %w", key, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read audio '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close audio '%s': %w", key, closeErr)
	}

	return data, nil
}

// Upload saves a rendered audio object to the bucket.
func (n *NatsObjectStore) Upload(_ context.Context, key string, data []byte) error {
	meta := &nats.ObjectMeta{
		Name:        key,
		Description: "",
		Headers:     nats.Header{"Content-Type": []string{audioContentType}},
		Metadata:    nil,
		Opts:        nil,
	}

	_, err := n.store.Put(meta, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to put audio '%s' to bucket '%s': %w", key, n.bucket, err)
	}

	return nil
}
