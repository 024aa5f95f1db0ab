package checkout

import (
	"context"
	"log/slog"
)

// Warning records a post-commit step that failed after the order was placed.
type Warning struct {
	Step string
	Err  error
}

// Runner executes steps sequentially. A failed step does not abort the run
// and is never rolled back, it is recorded as a warning for the caller to
// reconcile. Steps are not auto-retried: a decrement is not idempotent and a
// repeat could double-apply.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) Runner {
	return Runner{logger: logger}
}

func (r Runner) Run(ctx context.Context, steps []Step) []Warning {
	var warnings []Warning

	for _, step := range steps {
		if err := step.Execute(ctx); err != nil {
			r.logger.WarnContext(ctx, "checkout step failed", "step", step.Name(), "error", err)
			warnings = append(warnings, Warning{Step: step.Name(), Err: err})
			continue
		}
		r.logger.DebugContext(ctx, "checkout step done", "step", step.Name())
	}

	return warnings
}
