package factory

import (
	"context"
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/adapters/filestore"
	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/secrets"
	"go.uber.org/zap"
)

// FileStoreFactory creates the resume file store
type FileStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFileStoreFactory creates a new file store factory
func NewFileStoreFactory(cfg *config.Config, logger *zap.Logger) *FileStoreFactory {
	return &FileStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFileStore creates the store selected by files.type
func (f *FileStoreFactory) CreateFileStore() (core.FileStore, error) {
	filesCfg := f.cfg.GetFiles()

	switch filesCfg.Type {
	case "local":
		return filestore.NewLocalStore(filesCfg.LocalDir, f.logger)
	case "minio":
		secretKey, err := secrets.Load(secrets.Source{
			Name:  "minio secret key",
			Value: filesCfg.Minio.SecretKey,
			File:  filesCfg.Minio.SecretKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return filestore.NewMinioStore(context.Background(), filestore.MinioOptions{
			Endpoint:  filesCfg.Minio.Endpoint,
			AccessKey: filesCfg.Minio.AccessKey,
			SecretKey: secretKey,
			Bucket:    filesCfg.Minio.Bucket,
			UseSSL:    filesCfg.Minio.UseSSL,
		}, f.logger)
	default:
		return nil, fmt.Errorf("unsupported file store type: %s", filesCfg.Type)
	}
}
