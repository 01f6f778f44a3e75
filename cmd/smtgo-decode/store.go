package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/blobstore/minio"
	"github.com/hupe1980/smtgo/blobstore/s3"
)

// openStore builds the model store selected by cfg. A nil store means
// cfg.Model is a local file path.
func openStore(ctx context.Context, cfg config) (blobstore.Store, error) {
	switch cfg.Store {
	case storeLocal:
		if cfg.Root == "" {
			return nil, nil
		}
		return blobstore.NewLocalStore(cfg.Root), nil

	case storeS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		store := s3.NewStore(awss3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix)
		if cfg.DDBTable == "" {
			return store, nil
		}
		return s3.NewPointerStore(store, dynamodb.NewFromConfig(awsCfg), cfg.DDBTable, baseURI(cfg)), nil

	case storeMinio:
		client, err := miniogo.New(cfg.MinioEndpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minio.NewStore(client, cfg.Bucket, cfg.Prefix), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func baseURI(cfg config) string {
	return "s3://" + cfg.Bucket + "/" + cfg.Prefix
}
