package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
)

func cloudinaryConfig(endpoint string) *config.Config {
	return &config.Config{
		API: config.API{Timeout: 5 * time.Second},
		Upload: config.Upload{
			Provider: config.UploadProviderCloudinary,
			Cloudinary: config.Cloudinary{
				Endpoint:     endpoint,
				CloudName:    "demo",
				UploadPreset: "blog_preset",
			},
		},
	}
}

func TestCloudinaryClient_UploadImage(t *testing.T) {
	t.Run("multipart upload returns secure url", func(t *testing.T) {
		r := mux.NewRouter()
		r.HandleFunc("/v1_1/demo/image/upload", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, "blog_preset", req.FormValue("upload_preset"))

			f, fh, err := req.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "cover.png", fh.Filename)
			assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))
			assert.Equal(t, "pngbytes", string(data))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"secure_url": "https://res.example.com/demo/cover.png",
				"public_id":  "cover",
			})
		}).Methods(http.MethodPost)

		srv := httptest.NewServer(r)
		defer srv.Close()

		client, err := NewCloudinaryClient(cloudinaryConfig(srv.URL), srv.Client())
		require.NoError(t, err)

		obj, err := client.UploadImage(context.Background(), "/tmp/cover.png", strings.NewReader("pngbytes"), 8, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://res.example.com/demo/cover.png", obj.URL)
		assert.Equal(t, "cover", obj.Key)
	})

	t.Run("provider error message is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
		}))
		defer srv.Close()

		client, err := NewCloudinaryClient(cloudinaryConfig(srv.URL), srv.Client())
		require.NoError(t, err)

		_, err = client.UploadImage(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
		require.Error(t, err)
		assert.True(t, apperrors.IsNetwork(err))
		assert.Contains(t, err.Error(), "Upload preset not found")
	})
}

func TestNewCloudinaryClient_RequiresPreset(t *testing.T) {
	cfg := cloudinaryConfig("https://api.cloudinary.com")
	cfg.Upload.Cloudinary.UploadPreset = ""

	_, err := NewCloudinaryClient(cfg, nil)
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	t.Run("minio", func(t *testing.T) {
		cfg := &config.Config{Upload: config.Upload{
			Provider: config.UploadProviderMinIO,
			MinIO: config.MinIO{
				Endpoint:   "localhost:9000",
				AccessKey:  "minioadmin",
				SecretKey:  "minioadmin",
				BucketName: "images",
			},
		}}
		s, err := NewStorage(cfg)
		require.NoError(t, err)
		_, ok := s.(Remover)
		assert.True(t, ok)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewStorage(&config.Config{Upload: config.Upload{Provider: "ftp"}})
		assert.Error(t, err)
	})
}

func TestMinIOClient_objectURL(t *testing.T) {
	m := &MinIOClient{cfg: config.MinIO{Endpoint: "cdn.local:9000", BucketName: "images"}}
	assert.Equal(t, "http://cdn.local:9000/images/uploads/2026/01/abc.png", m.objectURL("uploads/2026/01/abc.png"))

	m.cfg.UseSSL = true
	assert.True(t, strings.HasPrefix(m.objectURL("k"), "https://"))
}

func TestObjectName(t *testing.T) {
	at := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "uploads/2026/03/id.jpg", ObjectName(at, "id", ".jpg"))
}
