// Package bootstrap turns configuration into concrete adapters. It is shared
// by the server and the admin CLI so both talk to the same store.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/ports"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/db/jsonfile"
	mongostore "github.com/uploadgate/upload-gateway/internal/infrastructure/db/mongo"
	pgstore "github.com/uploadgate/upload-gateway/internal/infrastructure/db/postgres"
	redisstore "github.com/uploadgate/upload-gateway/internal/infrastructure/db/redis"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/queue"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/storage"
	"github.com/uploadgate/upload-gateway/internal/pkg/config"
)

// CloseFunc releases whatever an Open* call acquired.
type CloseFunc func() error

func noopClose() error { return nil }

// OpenUserRepository returns the user store selected by USER_STORE. The file
// store is wrapped in a queue.SerialWriter that runs until ctx is cancelled.
func OpenUserRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, CloseFunc, error) {
	log = log.With().Str("user_store", cfg.Store.Backend).Logger()

	switch cfg.Store.Backend {
	case config.StoreFile:
		store := jsonfile.NewUserStore(cfg.Store.UsersFile, log)
		writer := queue.NewSerialWriter(store, log)
		writer.Start(ctx)
		log.Info().Str("path", store.Path()).Msg("using JSON file user store")
		return writer, noopClose, nil

	case config.StorePostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("using PostgreSQL user store")
		return pgstore.NewUserRepository(db), db.Close, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mongostore.Disconnect(client)
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using MongoDB user store")
		return repo, func() error { return mongostore.Disconnect(client) }, nil

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using Redis user store")
		return redisstore.NewUserRepository(client), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown user store %q", cfg.Store.Backend)
}

// OpenFileStorage returns the upload storage selected by UPLOAD_STORAGE.
func OpenFileStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.FileStorage, error) {
	switch cfg.Uploads.Backend {
	case config.StorageDisk:
		disk, err := storage.NewDiskStorage(cfg.Uploads.Dir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", disk.Dir()).Msg("storing uploads on disk")
		return disk, nil

	case config.StorageMinio:
		s, err := storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.Minio.Bucket).Msg("storing uploads in MinIO")
		return s, nil

	case config.StorageS3:
		s, err := storage.NewS3Storage(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			BaseEndpoint: cfg.S3.BaseEndpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Bucket:       cfg.S3.Bucket,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("storing uploads in S3")
		return s, nil
	}

	return nil, fmt.Errorf("unknown upload storage %q", cfg.Uploads.Backend)
}
