package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/deploy"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the built site to S3",
		Long: `Upload the build output directory to the configured S3 bucket.

Credentials come from the default AWS credential chain (environment,
shared config, instance role).

Examples:
  vitedge deploy
  vitedge deploy --bucket=my-site --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(bucket, prefix, region)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from vitedge.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from vitedge.json)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from vitedge.json)")

	return cmd
}

func runDeploy(bucket, prefix, region string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if bucket != "" {
		cfg.Deploy.Bucket = bucket
	}
	if prefix != "" {
		cfg.Deploy.Prefix = prefix
	}
	if region != "" {
		cfg.Deploy.Region = region
	}

	output := cfg.OutputPath()
	if st, err := os.Stat(output); err != nil || !st.IsDir() {
		errorMsg("Build output not found at %s", output)
		info("Run your build first (vite build), or set output in vitedge.json")
		return fmt.Errorf("missing build output directory: %s", output)
	}

	ctx := context.Background()
	uploader, err := deploy.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	info("Uploading %s to s3://%s/%s", output, cfg.Deploy.Bucket, cfg.Deploy.Prefix)

	n, err := uploader.UploadDir(ctx, output)
	if err != nil {
		return err
	}

	success("Uploaded %d files", n)
	return nil
}
