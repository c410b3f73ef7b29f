package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webhook-reporter/webhook-reporter/internal/assets"
	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/internal/notify"
	"github.com/webhook-reporter/webhook-reporter/internal/pipeline"
)

type Input struct {
	dryRun bool
	raw    bool
}

// flagKeys are the configuration keys exposed as flags. Flags take
// precedence over the INPUT_* environment.
var flagKeys = []struct {
	key   string
	usage string
}{
	{config.KeyProvider, "Chat provider receiving the message, one of: discord, slack, teams."},
	{config.KeyWebhookURL, "Webhook URL of the provider."},
	{config.KeyCoverageFile, "Coverage report file (Cobertura, Clover or JaCoCo)."},
	{config.KeyTestResults, "Test results file (JUnit XML or Jest JSON)."},
	{config.KeyCoverageThreshold, "Coverage threshold in percent, e.g. 80 or 80%."},
}

func NewCmdNotify() *cobra.Command {
	data := Input{}
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the coverage and test summary to a chat webhook.",
		Long: `Send the coverage and test summary to a chat webhook.

Configuration is read from the INPUT_* environment variables set by a
GitHub Action (INPUT_PROVIDER, INPUT_WEBHOOK_URL, INPUT_COVERAGE_FILE,
INPUT_TEST_RESULTS and INPUT_COVERAGE_THRESHOLD) or from the flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), v, &data)
		},
	}

	for _, f := range flagKeys {
		cmd.Flags().String(f.key, "", f.usage)
		if err := v.BindPFlag(f.key, cmd.Flags().Lookup(f.key)); err != nil {
			log.Warnf("Unable to bind flag %s", f.key)
		}
	}
	cmd.Flags().BoolVar(&data.dryRun, "dry-run", false, "Render the message to stdout instead of sending it.")
	cmd.Flags().BoolVar(&data.raw, "raw", false, "With --dry-run, print the markdown source instead of the terminal preview.")

	return cmd
}

func run(ctx context.Context, w io.Writer, v *viper.Viper, input *Input) error {
	if ctx == nil {
		ctx = context.Background()
	}
	text, cfg, err := buildMessage(v)
	if err != nil {
		return err
	}

	if input.dryRun {
		if input.raw {
			fmt.Fprintln(w, text)
			return nil
		}
		preview, err := notify.Preview(text)
		if err != nil {
			return err
		}
		fmt.Fprint(w, preview)
		return nil
	}

	return notify.NewClient(cfg.Provider, cfg.WebhookURL).Send(ctx, text)
}

func buildMessage(v *viper.Viper) (string, *config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return "", nil, err
	}
	log.Debugf("Sending %s report of %s with threshold %v%%", cfg.Provider, cfg.CoverageFile, cfg.CoverageThreshold)

	res, err := pipeline.Load(cfg.CoverageFile, cfg.TestResults)
	if err != nil {
		return "", nil, errors.Wrap(err, "could not process results")
	}

	msg := notify.NewMessage(res.Coverage, res.Tests, cfg.CoverageThreshold, cfg.Action)
	text, err := notify.Render(assets.GetData(), msg)
	if err != nil {
		return "", nil, err
	}
	return text, cfg, nil
}
