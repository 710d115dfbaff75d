package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"playmate/internal/catalogcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the catalog lookup cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

// openCache returns nil with a notice when the cache is disabled.
func openCache(cmd *cobra.Command, ctx *commandContext) (catalogcache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalogcache.Open(cmd.Context(), cfg.Cache)
	if errors.Is(err, catalogcache.ErrDisabled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog cache is disabled (cache.backend = \"off\")")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return store, nil
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached catalog lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd, ctx)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, entries)
			}
			printCacheEntries(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print entries as JSON")
	return cmd
}

func printCacheEntries(out io.Writer, entries []catalogcache.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Cached lookups: none")
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	expired := 0
	for _, e := range entries {
		state := "fresh"
		if e.Expired(now) {
			state = "expired"
			expired++
		}
		rows = append(rows, []string{
			e.Namespace,
			e.Key,
			strconv.Itoa(e.Size),
			e.StoredAt.Local().Format(stampLayout),
			e.ExpiresAt.Local().Format(stampLayout),
			state,
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "Namespace"},
		{header: "Key", maxWidth: 48},
		{header: "Bytes", right: true},
		{header: "Stored"},
		{header: "Expires"},
		{header: "State"},
	}, rows))
	fmt.Fprintf(out, "%d entries (%d expired)\n", len(entries), expired)
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd, ctx)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookups\n", removed)
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd, ctx)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expired cache entries")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired cache entries\n", removed)
			return nil
		},
	}
}
