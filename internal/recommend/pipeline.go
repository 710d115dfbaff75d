package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"playmate/internal/logging"
	"playmate/internal/services"
)

// Stage names one remote step of a run.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageResolve  Stage = "resolve"
	StageSelect   Stage = "select"
)

// ProgressFunc receives a notification before each remote stage.
type ProgressFunc func(stage Stage, message string)

// Recorder observes stage latency and run outcomes.
type Recorder interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
	ObserveRun(outcome string, recommendations int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration, error) {}
func (nopRecorder) ObserveRun(string, int)                    {}

// Options sizes a run.
type Options struct {
	CandidateCount int
	FactLimit      int
	Workers        int
}

// Request is one recommendation run. Zero counts fall back to the pipeline
// options.
type Request struct {
	Profile        Profile `json:"profile"`
	CandidateCount int     `json:"candidate_count,omitempty"`
	FactLimit      int     `json:"fact_limit,omitempty"`
}

// Result is the outcome of a successful run. An empty Recommendations slice
// means no confident match.
type Result struct {
	RequestID       string           `json:"request_id"`
	ProfileText     string           `json:"profile_text"`
	Candidates      []string         `json:"candidates"`
	Facts           []Fact           `json:"facts"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Pipeline wires the generator, resolver and selector into one run.
type Pipeline struct {
	generator *Generator
	resolver  *Resolver
	selector  *Selector
	opts      Options
	logger    *slog.Logger
	metrics   Recorder
	progress  ProgressFunc
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithRecorder installs a metrics recorder.
func WithRecorder(rec Recorder) PipelineOption {
	return func(p *Pipeline) {
		if rec != nil {
			p.metrics = rec
		}
	}
}

// NewPipeline constructs a Pipeline over the given text generator and catalog.
func NewPipeline(llm TextGenerator, catalog Catalog, opts Options, logger *slog.Logger, pipelineOpts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.CandidateCount <= 0 {
		opts.CandidateCount = 18
	}
	if opts.FactLimit <= 0 {
		opts.FactLimit = 16
	}
	p := &Pipeline{
		generator: NewGenerator(llm, logger),
		resolver:  NewResolver(catalog, logger, WithWorkers(opts.Workers)),
		selector:  NewSelector(llm, logger),
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		metrics:   nopRecorder{},
	}
	for _, opt := range pipelineOpts {
		opt(p)
	}
	return p
}

// Run executes one recommendation run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{RequestID: uuid.NewString()}
	ctx = services.WithRequestID(ctx, result.RequestID)
	logger := logging.WithContext(ctx, p.logger)

	n := req.CandidateCount
	if n <= 0 {
		n = p.opts.CandidateCount
	}
	limit := req.FactLimit
	if limit <= 0 {
		limit = p.opts.FactLimit
	}
	result.ProfileText = CompileProfile(req.Profile)

	started := time.Now()
	err := p.run(ctx, req, result, n, limit)
	outcome := services.FailureKind(err)
	if err == nil {
		outcome = "ok"
		if len(result.Recommendations) == 0 {
			outcome = "empty"
		}
	}
	p.metrics.ObserveRun(outcome, len(result.Recommendations))
	if err != nil {
		logger.Info("recommendation run failed",
			logging.Args(
				logging.String("outcome", outcome),
				logging.Duration("elapsed", time.Since(started)),
				logging.Error(err),
			)...,
		)
		return nil, err
	}
	logger.Info("recommendation run complete",
		logging.Args(
			logging.Int("candidates", len(result.Candidates)),
			logging.Int("facts", len(result.Facts)),
			logging.Int("recommendations", len(result.Recommendations)),
			logging.Duration("elapsed", time.Since(started)),
		)...,
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, req Request, result *Result, n, limit int) error {
	p.notify(StageGenerate, fmt.Sprintf("취향에 맞는 후보 %d개를 찾는 중...", n))
	err := p.stage(ctx, StageGenerate, func(ctx context.Context) error {
		candidates, err := p.generator.Generate(ctx, result.ProfileText, n)
		result.Candidates = candidates
		return err
	})
	if err != nil {
		return err
	}

	p.notify(StageResolve, fmt.Sprintf("후보 %d개를 게임 카탈로그에서 확인하는 중...", len(result.Candidates)))
	err = p.stage(ctx, StageResolve, func(ctx context.Context) error {
		facts, err := p.resolver.Resolve(ctx, result.Candidates, req.Profile.Platforms, limit)
		result.Facts = facts
		return err
	})
	if err != nil {
		return err
	}

	p.notify(StageSelect, fmt.Sprintf("확인된 게임 %d개 중에서 고르는 중...", len(result.Facts)))
	var selections []Selection
	err = p.stage(ctx, StageSelect, func(ctx context.Context) error {
		var err error
		selections, err = p.selector.Select(ctx, result.ProfileText, result.Facts)
		return err
	})
	if err != nil {
		return err
	}
	result.Recommendations = Merge(selections, result.Facts)
	return nil
}

func (p *Pipeline) stage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	ctx = services.WithStage(ctx, string(stage))
	started := time.Now()
	err := fn(ctx)
	p.metrics.ObserveStage(string(stage), time.Since(started), err)
	return err
}

func (p *Pipeline) notify(stage Stage, message string) {
	if p.progress != nil {
		p.progress(stage, message)
	}
}
