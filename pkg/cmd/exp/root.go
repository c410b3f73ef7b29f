package exp

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var expCmd = &cobra.Command{
	Use:   "exp",
	Short: "Experimental commands.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			if err := cmd.Help(); err != nil {
				log.Errorf("error loading help(): %v", err)
			}
		}
	},
}

func init() {
	expCmd.AddCommand(cmdPublish)
}

func NewCmdExp() *cobra.Command {
	return expCmd
}
