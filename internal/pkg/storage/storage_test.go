package storage_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/shandysiswandi/gocrm/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser   = "gocrm"
	minioSecret = "gocrm-secret"
)

func TestNewFromDriver_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		driver  string
		opts    storage.FactoryOptions
		wantErr error
	}{
		{name: "no bucket", driver: storage.DriverS3, wantErr: storage.ErrBucketRequired},
		{name: "unknown driver", driver: "ftp", opts: storage.FactoryOptions{Bucket: "b"}, wantErr: storage.ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := storage.NewFromDriver(context.Background(), tt.driver, tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func startMinIO(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	port := nat.Port("9000/tcp")
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioSecret,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort(port),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	mapped, err := ctr.MappedPort(ctx, port)
	require.NoError(t, err)

	return host + ":" + mapped.Port()
}

func exercise(t *testing.T, st storage.Storage) {
	t.Helper()
	ctx := context.Background()

	body := "id,AccountName\n1,Acme\n"
	obj, err := st.Put(ctx, "exports/accounts/a.csv", strings.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "text/csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "exports/accounts/a.csv", obj.Key)

	_, err = st.Put(ctx, "", strings.NewReader(body), storage.PutOptions{Size: -1})
	require.ErrorIs(t, err, storage.ErrInvalidKey)

	objects, err := st.List(ctx, "exports/accounts/", 0)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, int64(len(body)), objects[0].Size)

	url, err := st.PresignGet(ctx, "exports/accounts/a.csv", time.Minute)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, body, string(got))

	require.NoError(t, st.Delete(ctx, "exports/accounts/a.csv"))
	objects, err = st.List(ctx, "exports/accounts/", 0)
	require.NoError(t, err)
	assert.Empty(t, objects)

	require.NoError(t, st.Close())
}

func TestMinIOAndS3_Integration(t *testing.T) {
	endpoint := startMinIO(t)

	st, err := storage.NewFromDriver(context.Background(), storage.DriverMinIO, storage.FactoryOptions{
		Bucket: "gocrm",
		MinIO: storage.MinIOOptions{
			Endpoint:     endpoint,
			AccessKey:    minioUser,
			SecretKey:    minioSecret,
			CreateBucket: true,
		},
	})
	require.NoError(t, err)
	exercise(t, st)

	// the S3 driver talks to the same server through the AWS SDK
	st, err = storage.NewFromDriver(context.Background(), storage.DriverS3, storage.FactoryOptions{
		Bucket: "gocrm",
		S3: storage.S3Options{
			Endpoint:     "http://" + endpoint,
			AccessKey:    minioUser,
			SecretKey:    minioSecret,
			UsePathStyle: true,
		},
	})
	require.NoError(t, err)
	exercise(t, st)
}
