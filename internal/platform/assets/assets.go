// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package assets builds links to book covers and files held in the external
S3-compatible object store.

The catalog never uploads or reads objects; it only stores a book's filename
and turns it into URLs:

  - covers/<stem>.jpg: public cover image
  - books/<filename>: the book file, handed out through a presigned GET URL
*/
package assets

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Object key prefixes inside the bucket.
const (
	coverPrefix = "covers/"
	coverExt    = ".jpg"
	filePrefix  = "books/"
)

// Config holds the object store coordinates.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	LinkTTL   time.Duration
}

// Links is the link block attached to a book detail response.
type Links struct {
	Cover    string `json:"cover,omitempty"`
	Download string `json:"download,omitempty"`
}

// Linker resolves filenames into object URLs.
type Linker struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewLinker creates a minio client for cfg.
//
// No request is made: with an explicit region, presigning is computed
// locally.
func NewLinker(cfg Config) (*Linker, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("assets: failed to create minio client: %w", err)
	}

	return &Linker{client: client, bucket: cfg.Bucket, ttl: cfg.LinkTTL}, nil
}

// Cover returns the public URL of the cover image for filename.
func (linker *Linker) Cover(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))

	endpoint := *linker.client.EndpointURL()
	endpoint.Path = "/" + linker.bucket + "/" + coverPrefix + stem + coverExt
	return endpoint.String()
}

// Download returns a presigned, expiring GET URL for the book file.
func (linker *Linker) Download(context context.Context, filename string) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(filename)))

	signed, err := linker.client.PresignedGetObject(context, linker.bucket, filePrefix+filename, linker.ttl, params)
	if err != nil {
		return "", fmt.Errorf("assets: presign %s: %w", filename, err)
	}
	return signed.String(), nil
}

/*
Links assembles the link block for a book.

Returns nil when the book has no filename. The download link is only
produced for books flagged for direct download.
*/
func (linker *Linker) Links(context context.Context, filename *string, directDownload bool) (*Links, error) {
	if filename == nil || *filename == "" {
		return nil, nil
	}

	links := &Links{Cover: linker.Cover(*filename)}
	if directDownload {
		download, err := linker.Download(context, *filename)
		if err != nil {
			return nil, err
		}
		links.Download = download
	}
	return links, nil
}
