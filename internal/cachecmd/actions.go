// Package cachecmd implements the cache maintenance CLI commands.
package cachecmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"trust-shield/internal/common"
	"trust-shield/models"
	"trust-shield/pkg/cache"
)

// StatsAction prints the entry count of the score cache.
func StatsAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	store, path, err := openStore(c)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		return cli.Exit("", 2)
	}
	defer store.Close()

	n, err := store.Len()
	if err != nil {
		logger.Error("failed to read cache", "error", err)
		return cli.Exit("", 1)
	}

	fmt.Printf("cache: %s\nentries: %d\n", path, n)
	return nil
}

// PurgeAction deletes entries older than the --older-than duration.
func PurgeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	maxAge, err := time.ParseDuration(c.String("older-than"))
	if err != nil {
		logger.Error("invalid --older-than duration", "error", err)
		return cli.Exit("", 2)
	}

	store, path, err := openStore(c)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		return cli.Exit("", 2)
	}
	defer store.Close()

	removed, err := store.PurgeOlderThan(time.Now().Add(-maxAge))
	if err != nil {
		logger.Error("failed to purge cache", "error", err)
		return cli.Exit("", 1)
	}

	logger.Info("cache purged", "cache", path, "removed", removed)
	fmt.Printf("removed %d entries from %s\n", removed, path)
	return nil
}

func openStore(c *cli.Context) (*cache.SQLiteStore, string, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, "", err
	}
	path := cfg.CachePath
	if v := c.String("cache"); v != "" {
		path = v
	}
	if path == "" {
		return nil, "", fmt.Errorf("no cache path configured")
	}
	store, err := cache.OpenSQLite(path)
	if err != nil {
		return nil, "", err
	}
	return store, path, nil
}
