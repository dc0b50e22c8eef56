package commands

import (
	"github.com/spf13/cobra"

	"github.com/Vodeneev/leonspider/internal/pkg/health"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves POST /api/analyze-leon and the health endpoints until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		router := health.NewRouter(health.Options{
			Service:     serviceName,
			Runner:      a.pipeline,
			Tracker:     a.tracker,
			Runs:        a.runs,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		})

		err = health.Run(cmd.Context(), health.AddrFor(a.cfg.Server.Port), serviceName, router, a.cfg.Server.ReadHeaderTimeout)
		a.tracker.PrintSummary()
		return err
	},
}
