package main

import (
	"fmt"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/viaduct-ui/viaduct/pkg/assets"
)

func deployCmd() *cobra.Command {
	var (
		dir    string
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the built asset bundle to S3",
		Long: `Upload the fingerprinted bundle and its manifest to an S3 bucket.
Credentials come from the default AWS credential chain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				return fmt.Errorf("--bucket is required")
			}

			ctx := cmd.Context()
			var loadOpts []func(*awsconfig.LoadOptions) error
			if region != "" {
				loadOpts = append(loadOpts, awsconfig.WithRegion(region))
			}
			cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}

			m, err := assets.Load(filepath.Join(dir, "manifest.json"))
			if err != nil {
				return fmt.Errorf("load manifest (run build first): %w", err)
			}

			d := assets.NewDeployer(s3.NewFromConfig(cfg), bucket, prefix)
			if err := d.Deploy(ctx, m, dir); err != nil {
				return err
			}
			success("deployed %d assets to s3://%s/%s", m.Len(), bucket, prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "dist", "Built asset directory")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "static/", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region override")

	return cmd
}
