package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playmate/internal/logging"
	"playmate/internal/recommend"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var (
		profile   profileFlags
		model     string
		count     int
		limit     int
		workers   int
		jsonOut   bool
		showFacts bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend catalog-checked games for a taste profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := profile.profile()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			generator, err := ctx.textGenerator(model)
			if err != nil {
				return err
			}
			cache, closeCache, err := ctx.catalogCache(cmd.Context())
			if err != nil {
				return err
			}
			defer closeCache()
			catalog, err := ctx.gameCatalog(cache)
			if err != nil {
				return err
			}

			opts := recommend.Options{
				CandidateCount: cfg.Recommend.CandidateCount,
				FactLimit:      cfg.Recommend.FactLimit,
				Workers:        cfg.Recommend.Workers,
			}
			if workers > 0 {
				opts.Workers = workers
			}
			pipeline := recommend.NewPipeline(generator, catalog, opts, logger,
				recommend.WithProgress(progressPrinter(cmd)))

			result, err := pipeline.Run(cmd.Context(), recommend.Request{
				Profile:        prof,
				CandidateCount: count,
				FactLimit:      limit,
			})
			if err != nil {
				return userFacingError(logger, err)
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}
			printRecommendations(cmd.OutOrStdout(), result, showFacts)
			return nil
		},
	}

	profile.register(cmd)
	cmd.Flags().StringVar(&model, "model", "", "Override llm.model for this run")
	cmd.Flags().IntVar(&count, "count", 0, "Candidates to generate (default recommend.candidate_count)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum catalog facts kept (default recommend.fact_limit)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent catalog lookups (default recommend.workers)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&showFacts, "facts", false, "Also list every verified catalog fact")
	return cmd
}

// userFacingError keeps the detailed error in the log and returns the one-line
// message for the terminal.
func userFacingError(logger *slog.Logger, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	logger.Debug("command failed", logging.Args(logging.Error(err))...)
	return errors.New(recommend.UserMessage(err))
}

func printRecommendations(out io.Writer, result *recommend.Result, showFacts bool) {
	if len(result.Recommendations) == 0 {
		fmt.Fprintln(out, "확신할 만한 추천이 없어요. 조건을 조금 바꿔서 다시 시도해 보세요.")
	} else {
		rows := make([][]string, 0, len(result.Recommendations))
		for i, rec := range result.Recommendations {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				rec.Name,
				strings.Join(rec.Platforms, ", "),
				strings.Join(rec.Genres, ", "),
				formatScore(rec.Rating, rec.Metacritic),
				rec.Reason,
				rec.TimeFit,
			})
		}
		fmt.Fprintln(out, renderTable([]column{
			{header: "#", right: true},
			{header: "Game", maxWidth: 28},
			{header: "Platforms", maxWidth: 24},
			{header: "Genres", maxWidth: 20},
			{header: "Score", right: true},
			{header: "Why", maxWidth: 40},
			{header: "Time fit", maxWidth: 24},
		}, rows))
		for _, rec := range result.Recommendations {
			if rec.Caution != "" {
				fmt.Fprintf(out, "! %s: %s\n", rec.Name, rec.Caution)
			}
		}
		for _, rec := range result.Recommendations {
			for _, store := range rec.Stores {
				if store.URL != "" {
					fmt.Fprintf(out, "  %s · %s: %s\n", rec.Name, store.Name, store.URL)
				}
			}
		}
	}
	if showFacts && len(result.Facts) > 0 {
		rows := make([][]string, 0, len(result.Facts))
		for _, fact := range result.Facts {
			rows = append(rows, []string{
				strconv.FormatInt(fact.ID, 10),
				fact.Name,
				fact.Released,
				strings.Join(fact.Platforms, ", "),
			})
		}
		fmt.Fprintln(out, renderTable([]column{
			{header: "ID", right: true},
			{header: "Verified game", maxWidth: 32},
			{header: "Released"},
			{header: "Platforms", maxWidth: 40},
		}, rows))
	}
	fmt.Fprintf(out, "request %s\n", result.RequestID)
}

func formatScore(rating float64, metacritic *int) string {
	parts := make([]string, 0, 2)
	if rating > 0 {
		parts = append(parts, strconv.FormatFloat(rating, 'f', 1, 64))
	}
	if metacritic != nil && *metacritic > 0 {
		parts = append(parts, "MC "+strconv.Itoa(*metacritic))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}
