package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/claimflow/pkg/lifecycle"
)

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// newAzure authenticates with the connection string when one is set, and
// otherwise with the default Azure credential chain against Endpoint.
func newAzure(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newAzureClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create azure storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "provider", ProviderAzure),
	}, nil
}

func newAzureClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default credential: %w", err)
	}
	return azblob.NewClient(cfg.Endpoint, cred, nil)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}
		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	a.logger.DebugContext(ctx, "blob uploaded", "key", key, "content_type", contentType)
	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	bc, err := a.blobClient(key)
	if err != nil {
		return nil, err
	}

	resp, err := bc.DownloadStream(ctx, nil)
	if err != nil {
		return nil, notFound(err, "download blob", key)
	}
	return resp.Body, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	bc, err := a.blobClient(key)
	if err != nil {
		return err
	}

	if _, err := bc.Delete(ctx, nil); err != nil {
		return notFound(err, "delete blob", key)
	}

	a.logger.InfoContext(ctx, "blob deleted", "key", key)
	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	bc, err := a.blobClient(key)
	if err != nil {
		return false, err
	}

	_, err = bc.GetProperties(ctx, nil)
	switch err = notFound(err, "check blob", key); {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (a *azure) blobClient(key string) (*blob.Client, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(key), nil
}

// notFound reports BlobNotFound responses as ErrNotFound and wraps the rest.
func notFound(err error, op, key string) error {
	switch {
	case err == nil:
		return nil
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s %s: %w", op, key, err)
	}
}
