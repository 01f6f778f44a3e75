// Package minio provides a blobstore.Store for MinIO and other
// S3-compatible object stores.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: false,
//	})
//
//	store := minio.NewStore(client, "models", "en-it/")
package minio
