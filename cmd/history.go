package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a user's past predictions (requires a database)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")
		records, err := a.service.History(cmd.Context(), user, limit)
		if err != nil {
			return err
		}
		return writeJSON(records)
	},
}

func init() {
	historyCmd.Flags().String("user", "", "User to list predictions for")
	historyCmd.Flags().Int("limit", 50, "Maximum number of predictions")
	_ = historyCmd.MarkFlagRequired("user")
}
