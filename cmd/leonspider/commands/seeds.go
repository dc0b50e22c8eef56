package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vodeneev/leonspider/internal/parser/seed"
	"github.com/Vodeneev/leonspider/internal/pkg/config"
	"github.com/Vodeneev/leonspider/internal/pkg/logging"
)

var seedsCmd = &cobra.Command{
	Use:   "seeds",
	Short: "Manages the sport seed pages league ids are read from.",
}

var refreshPages []string

var seedsRefreshCmd = &cobra.Command{
	Use:   "refresh [--page football]...",
	Short: "Renders live Leon sport pages in headless Chrome and stores them as seed pages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log, closer, err := logging.Setup(cfg.Logging, serviceName)
		if err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}
		defer closer.Close()

		names := refreshPages
		if len(names) == 0 {
			names = cfg.Harvest.SportPages
		}

		snap := &seed.Snapshotter{Wait: cfg.Seeds.Wait, Timeout: cfg.Seeds.Timeout}
		extractor := seed.NewExtractor()
		failed := 0
		for _, page := range seed.Pages(cfg.Harvest.SeedDir, names) {
			url, ok := cfg.Seeds.URLs[page.Name]
			if !ok {
				log.Warn("No URL configured for seed page", "page", page.Name)
				failed++
				continue
			}
			if err := snap.Snapshot(cmd.Context(), url, page); err != nil {
				log.Error("Failed to refresh seed page", "page", page.Name, "url", url, "error", err)
				failed++
				continue
			}
			leagues, err := extractor.ExtractFile(page.File)
			if err != nil {
				return err
			}
			log.Info("Seed page refreshed", "page", page.Name, "file", page.File, "leagues", len(leagues))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d seed pages failed to refresh", failed, len(names))
		}
		return nil
	},
}

func init() {
	seedsRefreshCmd.Flags().StringSliceVar(&refreshPages, "page", nil, "Sport page to refresh (default: every configured page)")
	seedsCmd.AddCommand(seedsRefreshCmd)
	rootCmd.AddCommand(seedsCmd)
}
