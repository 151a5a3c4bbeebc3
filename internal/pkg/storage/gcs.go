package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS implements Storage using Google Cloud Storage.
type GCS struct {
	bucket string
	client *gcs.Client

	// signing identity, empty when the key file was not provided
	accessID   string
	privateKey []byte
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	// CredentialsFile is a service account JSON key. Without it application
	// default credentials are used and PresignGet is unavailable.
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. for an emulator.
	Endpoint string
}

// NewGCS constructs a GCS adapter for bucket.
func NewGCS(ctx context.Context, bucket string, opts GCSOptions) (*GCS, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	g := &GCS{bucket: bucket}
	var clientOpts []option.ClientOption
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	if opts.CredentialsFile != "" {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("storage: read gcs credentials: %w", err)
		}

		creds, err := google.CredentialsFromJSON(ctx, data, gcs.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("storage: parse gcs credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))

		jwtCfg, err := google.JWTConfigFromJSON(data, gcs.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("storage: parse gcs signer: %w", err)
		}
		g.accessID = jwtCfg.Email
		g.privateKey = jwtCfg.PrivateKey
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	g.client = client

	return g, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	if err := checkKey(key); err != nil {
		return Object{}, err
	}

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}

	if _, err := io.Copy(w, r); err != nil {
		return Object{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return Object{}, err
	}

	if attrs := w.Attrs(); attrs != nil {
		return gcsObject(attrs), nil
	}
	return Object{Bucket: g.bucket, Key: key, Size: opts.Size, ContentType: opts.ContentType}, nil
}

func (g *GCS) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if g.accessID == "" || len(g.privateKey) == 0 {
		return "", ErrMissingSigner
	}

	return g.client.Bucket(g.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.accessID,
		PrivateKey:     g.privateKey,
		Scheme:         gcs.SigningSchemeV4,
	})
}

func (g *GCS) List(ctx context.Context, prefix string, limit int) ([]Object, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})

	objects := make([]Object, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, gcsObject(attrs))
		if limit > 0 && len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return g.client.Bucket(g.bucket).Object(key).Delete(ctx)
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func gcsObject(attrs *gcs.ObjectAttrs) Object {
	return Object{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.Updated,
	}
}
