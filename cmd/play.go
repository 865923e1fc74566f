package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a question bank in the terminal",
	Example: `  quizcard play
  quizcard play --bank capitals.yaml --shuffle`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	addBankFlags(playCmd)
}
