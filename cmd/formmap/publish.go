package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-formmap/internal/config"
	"github.com/a3tai/pdf-formmap/internal/publish"
)

// newStore is swapped in tests.
var newStore = publish.NewS3Store

func (a *app) newPublishCmd() *cobra.Command {
	var (
		key      string
		noSchema bool
	)

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Upload a mapping JSON or template PDF to an S3-compatible bucket",
		Long: `Upload a mapping or template to object storage, creating the bucket when it
is missing and overwriting any existing object. JSON mappings are validated
against their schema first. Credentials come from s3.access_key and
s3.secret_key (FORMMAP_S3_ACCESS_KEY, FORMMAP_S3_SECRET_KEY) or the default
AWS chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), a.cfg.S3Config())
			if err != nil {
				return err
			}
			opts := a.cfg.PublishOptions()
			opts.Schema = !noSchema

			res, err := publish.NewPublisher(store, opts, a.logger).Publish(cmd.Context(), publish.Artifact{
				Path:   args[0],
				Bucket: a.cfg.S3.Bucket,
				Key:    key,
			})
			if err != nil {
				return err
			}

			return a.out(cmd).Write(res, func(w io.Writer) error {
				if res.Created {
					fmt.Fprintf(w, "🪣 Created bucket %s\n", res.Bucket)
				}
				_, err := fmt.Fprintf(w, "✅ Uploaded %s to %s/%s (%d bytes, %s)\n",
					args[0], res.Bucket, res.Key, res.Size, res.ContentType)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (default: the file name)")
	cmd.Flags().BoolVar(&noSchema, "no-schema", false, "skip schema validation of JSON mappings")
	cmd.Flags().String("bucket", config.DefaultBucket, "destination bucket")
	cmd.Flags().String("endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().String("region", config.DefaultRegion, "bucket region")
	return cmd
}
