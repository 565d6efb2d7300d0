// Package provision runs the demo pipeline for one vertical:
// ddl → data → documents → search → semantic → validate.
//
// Statement failures are logged and recorded on the step, and the run
// moves on. Fatal errors (creating the database, a missing securities
// cache, an unusable session) stop the run.
package provision

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/snowflake"
	"snowdemo/internal/ui"
	"snowdemo/internal/validate"
	"snowdemo/internal/vertical"
	"snowdemo/pkg/errors"
)

// Options control a run.
type Options struct {
	Steps    []Step
	Scenario string
	Scale    float64
	Seed     int64
	Model    string
	// Warehouse is used for search services; USE WAREHOUSE is issued when set.
	Warehouse string
	TargetLag string
	DocMin    int
	DocMax    int
	// WaitForSearch polls new search services until they are active.
	WaitForSearch bool
	Wait          cortex.WaitOptions
	DryRun        bool
}

// StepResult records one executed step.
type StepResult struct {
	Step       Step
	Statements int
	Failures   []string
	Warnings   []string
	Duration   time.Duration
}

// OK reports whether the step had no failures.
func (r StepResult) OK() bool { return len(r.Failures) == 0 }

// Summary is the outcome of a run.
type Summary struct {
	Vertical string
	Database string
	Steps    []StepResult
	Checks   []validate.Result
	Fatal    error
}

// OK is true when no step failed, no check failed and nothing was fatal.
func (s *Summary) OK() bool {
	if s.Fatal != nil {
		return false
	}
	for _, st := range s.Steps {
		if !st.OK() {
			return false
		}
	}
	return validate.Passed(s.Checks)
}

// Runner executes the pipeline against one vertical.
type Runner struct {
	exec      snowflake.Executor
	loader    *snowflake.Loader
	vertical  *vertical.Vertical
	scenarios []vertical.Scenario
	opts      Options
	logger    *zap.Logger
	ui        *ui.UI

	tables []*datagen.Table
}

// NewRunner validates the scenario selection and returns a runner.
func NewRunner(exec snowflake.Executor, v *vertical.Vertical, opts Options, logger *zap.Logger, out *ui.UI) (*Runner, error) {
	if v.Disabled {
		return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Vertical %s is disabled in config", v.Name)).AsFatal()
	}

	scenarios, err := v.SelectScenarios(opts.Scenario)
	if err != nil {
		return nil, err
	}
	if len(opts.Steps) == 0 {
		opts.Steps = AllSteps
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = ui.NewUI(false, true)
	}

	return &Runner{
		exec:      exec,
		loader:    snowflake.NewLoader(exec, snowflake.DefaultBatchSize, logger),
		vertical:  v,
		scenarios: scenarios,
		opts:      opts,
		logger:    logger.With(zap.String("vertical", v.Name), zap.String("database", v.Database)),
		ui:        out,
	}, nil
}

// Run executes the selected steps in order. The returned error is the
// fatal error, also recorded on the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Vertical: r.vertical.Name, Database: r.vertical.Database}
	start := time.Now()

	r.ui.Header(fmt.Sprintf("%s → %s", r.vertical.Name, r.vertical.Database))
	r.logger.Info("provisioning started",
		zap.Strings("steps", stepNames(r.opts.Steps)),
		zap.String("scenario", scenarioLabel(r.opts.Scenario)),
		zap.Float64("scale", r.opts.Scale),
		zap.Int64("seed", r.opts.Seed),
		zap.Bool("dry_run", r.opts.DryRun))

	if err := r.useContext(ctx); err != nil {
		summary.Fatal = err
		return summary, err
	}

	for _, step := range r.opts.Steps {
		if err := ctx.Err(); err != nil {
			summary.Fatal = errors.Wrap(err, errors.ErrCodeTimeout, "Run cancelled").AsFatal()
			return summary, summary.Fatal
		}

		r.ui.Section(fmt.Sprintf("Step: %s", step))
		result := StepResult{Step: step}
		stepStart := time.Now()

		var err error
		switch step {
		case StepDDL:
			err = r.runDDL(ctx, &result)
		case StepData:
			err = r.runData(ctx, &result)
		case StepDocuments:
			err = r.runDocuments(ctx, &result)
		case StepSearch:
			r.runSearch(ctx, &result)
		case StepSemantic:
			r.runSemantic(ctx, &result)
		case StepValidate:
			summary.Checks = r.runValidate(ctx, &result)
		}

		result.Duration = time.Since(stepStart)
		summary.Steps = append(summary.Steps, result)
		r.logger.Info("step finished",
			zap.String("step", string(step)),
			zap.Int("statements", result.Statements),
			zap.Int("failures", len(result.Failures)),
			zap.Duration("elapsed", result.Duration))

		if err != nil {
			summary.Fatal = err
			r.ui.ShowError(err)
			return summary, err
		}
	}

	r.logger.Info("provisioning finished", zap.Bool("ok", summary.OK()), zap.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// useContext selects the warehouse and, when the ddl step will not create
// it, the existing database. Either failing is fatal.
func (r *Runner) useContext(ctx context.Context) error {
	if r.opts.Warehouse != "" {
		if _, err := r.exec.Exec(ctx, fmt.Sprintf("USE WAREHOUSE %s", r.opts.Warehouse)); err != nil {
			return errors.Wrap(err, errors.GetErrorCode(err), fmt.Sprintf("Cannot use warehouse %s", r.opts.Warehouse)).AsFatal()
		}
	}
	if r.has(StepDDL) {
		return nil
	}
	if _, err := r.exec.Exec(ctx, fmt.Sprintf("USE DATABASE %s", r.vertical.Database)); err != nil {
		return errors.Wrap(err, errors.GetErrorCode(err), fmt.Sprintf("Database %s is not available", r.vertical.Database)).
			WithSuggestions("Run the ddl step to create it").
			AsFatal()
	}
	return nil
}

func (r *Runner) has(step Step) bool {
	for _, s := range r.opts.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// execStatement runs one statement, recording a failure instead of returning it.
func (r *Runner) execStatement(ctx context.Context, result *StepResult, label, stmt string) bool {
	result.Statements++
	if _, err := r.exec.Exec(ctx, stmt); err != nil {
		r.fail(result, label, err)
		return false
	}
	r.logger.Debug("statement ok", zap.String("object", label))
	r.ui.VerbosePrintf("  %s %s\n", ui.ColorDim("ok"), label)
	return true
}

func (r *Runner) fail(result *StepResult, label string, err error) {
	msg := fmt.Sprintf("%s: %s", label, firstLine(err.Error()))
	result.Failures = append(result.Failures, msg)
	r.ui.Error("%s", msg)
	if hint := failureHint(err); hint != "" {
		r.ui.Info("%s", hint)
	}
	r.logger.Error("statement failed",
		zap.String("step", string(result.Step)),
		zap.String("object", label),
		zap.String("code", string(errors.GetErrorCode(err))),
		zap.Error(err))
}

// failureHint maps classified statement errors to the usual fix.
func failureHint(err error) string {
	switch errors.GetErrorCode(err) {
	case errors.ErrCodeSQLPermission:
		return "the role lacks a privilege; Cortex calls also need SNOWFLAKE.CORTEX_USER"
	case errors.ErrCodeSQLObjectNotFound:
		return "an object is missing; run the ddl step first"
	case errors.ErrCodeSQLTimeout:
		return "the statement timed out; try a larger warehouse or --quick"
	case errors.ErrCodeConnectionFailed, errors.ErrCodeNotConnected:
		return "the session was lost; rerun this step with --step"
	default:
		return ""
	}
}

func (r *Runner) warn(result *StepResult, msg string) {
	result.Warnings = append(result.Warnings, msg)
	r.ui.Warning("%s", msg)
	r.logger.Warn(msg, zap.String("step", string(result.Step)))
}

func (r *Runner) generator(purpose string) *datagen.Generator {
	return SeededGenerator(r.opts.Seed, purpose)
}

// SeededGenerator returns a source seeded for purpose so each step draws
// the same values whether or not earlier steps ran.
func SeededGenerator(seed int64, purpose string) *datagen.Generator {
	h := fnv.New64a()
	_, _ = h.Write([]byte(purpose))
	return datagen.New(seed ^ int64(h.Sum64()>>1))
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

func stepNames(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}

func scenarioLabel(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
