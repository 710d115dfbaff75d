package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"playmate/internal/httpapi"
	"playmate/internal/logging"
	"playmate/internal/metrics"
	"playmate/internal/preflight"
	"playmate/internal/quiz"
	"playmate/internal/recommend"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations, the quiz and chat over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.Server.Bind
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			recorder := metrics.New(reg)

			deps := httpapi.Deps{
				Quiz:     quiz.MovieQuiz,
				Metrics:  recorder,
				Gatherer: reg,
				Token:    cfg.Server.Token,
				Logger:   logger,
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cache, closeCache, err := ctx.catalogCache(runCtx)
			if err != nil {
				return err
			}
			defer closeCache()

			// Each surface is enabled only when its credentials are present.
			if generator, err := ctx.textGenerator(""); err == nil {
				deps.Direct = recommend.NewDirect(generator, logger)
				deps.Chat = generator
				if catalog, err := ctx.gameCatalog(cache); err == nil {
					deps.Recommender = recommend.NewPipeline(generator, catalog, recommend.Options{
						CandidateCount: cfg.Recommend.CandidateCount,
						FactLimit:      cfg.Recommend.FactLimit,
						Workers:        cfg.Recommend.Workers,
					}, logger, recommend.WithRecorder(recorder))
				} else {
					warnDisabled(logger, "recommendations", err)
				}
			} else {
				warnDisabled(logger, "recommendations, direct and chat", err)
			}
			if catalog, err := ctx.movieCatalog(cache); err == nil {
				deps.Movies = quiz.NewPicker(catalog, logger)
			} else {
				warnDisabled(logger, "quiz movie lookup", err)
			}

			if !skipPreflight {
				for _, result := range preflight.Failed(preflight.RunAll(runCtx, cfg)) {
					logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail),
						logging.String(logging.FieldImpact, "requests that need this service will fail"),
					)
				}
			}

			server := httpapi.New(bind, deps)
			if err := server.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			server.Stop()
			logger.Info("api server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default server.bind)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not probe remote services at startup")
	return cmd
}

func warnDisabled(logger *slog.Logger, surface string, err error) {
	logging.WarnWithContext(logger, "api surface disabled", "api_surface_disabled",
		logging.String("surface", surface),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "set the missing API key and restart"),
		logging.String(logging.FieldImpact, "routes for this surface answer 503"),
	)
}
