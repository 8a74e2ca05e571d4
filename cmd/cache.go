package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the task cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the cache backend and its reachability",
	Long: `Shows the configured cache backend. With the Redis backend the server is
pinged; hits and misses are counted per process.`,
	Args: cobra.NoArgs,
	RunE: runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached task",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// cacheReport is the JSON shape of `cache stats`.
type cacheReport struct {
	cache.Stats
	HitRate   float64 `json:"hit_rate"`
	Reachable bool    `json:"reachable"`
	TTL       string  `json:"ttl"`
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	report := cacheReport{Stats: a.cache.Stats(), TTL: a.cfg.CacheTTL().String()}
	report.HitRate = report.Stats.HitRate()
	switch c := a.cache.(type) {
	case *cache.Redis:
		report.Reachable = c.Ping(ctx) == nil
	case *cache.Memory:
		report.Reachable = true
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, report)
	}
	output.CacheStats(os.Stdout, report.Stats)
	output.Messagef(os.Stdout, "  %-12s %s", "TTL:", report.TTL)
	output.Messagef(os.Stdout, "  %-12s %t", "Reachable:", report.Reachable)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	n, err := a.cache.Clear(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("cache cleared", "keys", n)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "cleared", "keys": n})
	}
	output.Messagef(os.Stdout, "Cleared %d cached tasks", n)
	return nil
}
