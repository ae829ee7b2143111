package assets

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Fingerprinted files never change content under the same name.
const immutableCacheControl = "public, max-age=31536000, immutable"

// s3API is the S3 surface the deployer uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Deployer uploads a built asset directory to an S3 bucket.
type Deployer struct {
	client s3API
	bucket string
	prefix string
}

// NewDeployer creates a deployer writing under bucket/prefix.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	d := assets.NewDeployer(s3.NewFromConfig(cfg), "my-bucket", "static/")
func NewDeployer(client *s3.Client, bucket, prefix string) *Deployer {
	return newDeployer(client, bucket, prefix)
}

func newDeployer(client s3API, bucket, prefix string) *Deployer {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Deployer{client: client, bucket: bucket, prefix: prefix}
}

// Deploy uploads every fingerprinted file of the manifest from dir,
// then the manifest itself. Fingerprinted objects get an immutable
// cache policy; the manifest is marked no-cache since its name never
// changes.
func (d *Deployer) Deploy(ctx context.Context, m *Manifest, dir string) error {
	for source, hashed := range m.All() {
		local := filepath.Join(dir, filepath.FromSlash(hashed))
		if err := d.put(ctx, hashed, local, immutableCacheControl); err != nil {
			return fmt.Errorf("deploy %s: %w", source, err)
		}
	}

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := m.Save(manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := d.put(ctx, "manifest.json", manifestPath, "no-cache"); err != nil {
		return fmt.Errorf("deploy manifest: %w", err)
	}
	return nil
}

func (d *Deployer) put(ctx context.Context, key, local, cacheControl string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.bucket),
		Key:          aws.String(d.prefix + key),
		Body:         f,
		ContentType:  aws.String(contentType(key)),
		CacheControl: aws.String(cacheControl),
	})
	return err
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
