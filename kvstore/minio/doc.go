// Package minio implements kvstore.Store for MinIO and other S3-compatible
// object stores.
//
// Connect with the minio-go client:
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	store := miniostore.NewStore(client, "memogo-cache", "cache/")
//
// Tests for this package require a live MinIO server and live in the
// integration suite; the store itself is exercised through the kvstore
// contract.
package minio
