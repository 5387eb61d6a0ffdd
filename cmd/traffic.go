package cmd

import (
	"github.com/spf13/cobra"
)

var trafficCmd = &cobra.Command{
	Use:   "traffic",
	Short: "Show live congestion on a route for a trip leaving now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		snap, err := a.service.CurrentTraffic(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		return writeJSON(snap)
	},
}

func init() {
	trafficCmd.Flags().String("from", "", "Start point: a known place or lat,lon")
	trafficCmd.Flags().String("to", "", "Destination: a known place or lat,lon")
	_ = trafficCmd.MarkFlagRequired("from")
	_ = trafficCmd.MarkFlagRequired("to")
}
