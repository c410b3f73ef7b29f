package exp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/internal/publish"
)

// envEnablePublish must be set for publish to run.
const envEnablePublish = "WEBHOOK_REPORTER_ENABLE_EXP_PUBLISH"

type publishInput struct {
	file         string
	bucketName   string
	bucketRegion string
	objectKey    string
	dryRun       bool
}

var argsPublish publishInput
var cmdPublish = &cobra.Command{
	Use:   "publish summary.json",
	Short: "(Experimental) Publish results to a storage bucket.",
	Long:  "Experimental command to publish the saved report files to an S3 bucket. The GitHub Action context is attached as object metadata.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argsPublish.file = args[0]
		if err := publishResult(cmd.Context(), cmd.OutOrStdout(), &argsPublish, nil); err != nil {
			return errors.Wrapf(err, "could not publish results: %v", args[0])
		}
		return nil
	},
}

func init() {
	cmdPublish.Flags().StringVarP(
		&argsPublish.bucketName, "bucket", "b", "",
		"Bucket name to upload the file to.",
	)
	cmdPublish.Flags().StringVarP(
		&argsPublish.bucketRegion, "region", "r", publish.DefaultRegion,
		"Bucket region.",
	)
	cmdPublish.Flags().StringVarP(
		&argsPublish.objectKey, "key", "k", "",
		"Object key to use when uploading the file to the bucket, when not set the uploads/ path will be prepended to the filename.",
	)
	cmdPublish.Flags().BoolVar(
		&argsPublish.dryRun, "dry-run", false,
		"Resolve the object URI without uploading.",
	)
}

// checkRequiredParams checks if the required env to enable feature is set.
func checkRequiredParams(input *publishInput) error {
	if os.Getenv(envEnablePublish) == "" && !input.dryRun {
		return errors.Errorf("publishing is experimental, set %s to enable it", envEnablePublish)
	}
	if input.bucketName == "" {
		return errors.New("missing required flag --bucket")
	}
	return nil
}

// metadata builds the object metadata from the GitHub Action context.
func metadata(action config.ActionInfo) map[string]string {
	meta := map[string]string{}
	for k, v := range map[string]string{
		"repository": action.Repository,
		"sha":        action.SHA,
		"ref":        action.Ref,
		"run-id":     action.RunID,
		"actor":      action.Actor,
	} {
		if v != "" {
			meta[k] = v
		}
	}
	return meta
}

type publisher interface {
	Publish(ctx context.Context, file, key string, meta map[string]string) (string, error)
}

// publishResult uploads the file. A nil pub creates the S3 publisher.
func publishResult(ctx context.Context, w io.Writer, input *publishInput, pub publisher) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info("Publishing the results to storage...")
	if err := checkRequiredParams(input); err != nil {
		return err
	}

	if pub == nil {
		p, err := publish.NewPublisher(input.bucketName, input.bucketRegion, input.dryRun)
		if err != nil {
			return err
		}
		pub = p
	}

	uri, err := pub.Publish(ctx, input.file, input.objectKey, metadata(config.ActionInfoFromEnv()))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, uri)
	return nil
}
