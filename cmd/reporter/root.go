package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webhook-reporter/webhook-reporter/pkg/cmd/adm"
	"github.com/webhook-reporter/webhook-reporter/pkg/cmd/exp"
	"github.com/webhook-reporter/webhook-reporter/pkg/cmd/notify"
	"github.com/webhook-reporter/webhook-reporter/pkg/cmd/report"
	"github.com/webhook-reporter/webhook-reporter/pkg/version"
)

const logFile = "webhook-reporter.log"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "webhook-reporter",
	Short:         "Coverage and test report notifier",
	Long:          `webhook-reporter reads coverage (Cobertura, Clover, JaCoCo) and test (JUnit XML, Jest JSON) reports, summarizes them and sends the summary to a chat webhook`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		// Logs go to stderr so stdout stays parseable with --output json.
		log.SetOutput(os.Stderr)
		if viper.GetBool("log-file-skip") {
			return
		}
		fdLog, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", logFile, err)
		} else {
			log.AddHook(&logwriter.Hook{
				Writer: fdLog,
				LogLevels: []log.Level{
					log.PanicLevel,
					log.FatalLevel,
					log.ErrorLevel,
					log.WarnLevel,
					log.InfoLevel,
					log.DebugLevel,
				},
			})
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().Bool("log-file-skip", false, "do not write logs to "+logFile)
	initBindFlag("log-level")
	initBindFlag("log-file-skip")

	// Link in child commands
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(notify.NewCmdNotify())
	rootCmd.AddCommand(adm.NewCmdAdm())
	rootCmd.AddCommand(exp.NewCmdExp())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.AutomaticEnv() // read in environment variables that match
}
