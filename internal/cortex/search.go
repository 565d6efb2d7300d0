package cortex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"snowdemo/internal/snowflake"
	"snowdemo/pkg/errors"
)

// SearchService describes a Cortex Search service over a source query.
type SearchService struct {
	Name       string
	Scenario   string
	On         string
	Attributes []string
	Source     string
}

// DDL renders CREATE OR REPLACE CORTEX SEARCH SERVICE in schema.
func (s SearchService) DDL(schema, warehouse, targetLag string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE CORTEX SEARCH SERVICE %s.%s\n", schema, s.Name)
	fmt.Fprintf(&b, "  ON %s\n", s.On)
	if len(s.Attributes) > 0 {
		fmt.Fprintf(&b, "  ATTRIBUTES %s\n", strings.Join(s.Attributes, ", "))
	}
	fmt.Fprintf(&b, "  WAREHOUSE = %s\n", warehouse)
	fmt.Fprintf(&b, "  TARGET_LAG = %s\n", QuoteLiteral(targetLag))
	fmt.Fprintf(&b, "  AS (\n    %s\n  )", strings.ReplaceAll(strings.TrimSpace(s.Source), "\n", "\n    "))
	return b.String()
}

// ErrNotReady is returned by WaitForSearchService when the service has not
// finished its initial indexing before the wait expired.
var ErrNotReady = errors.New(errors.ErrCodeServiceUnavailable, "Search service is not active yet").
	WithSeverity(errors.SeverityWarning)

// WaitOptions bound WaitForSearchService.
type WaitOptions struct {
	MaxElapsed      time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultWaitOptions polls for up to five minutes.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		MaxElapsed:      5 * time.Minute,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// WaitForSearchService polls SHOW CORTEX SEARCH SERVICES until name reports
// an ACTIVE indexing state. Query failures stop the wait immediately.
func WaitForSearchService(ctx context.Context, exec snowflake.Executor, schema, name string, opts WaitOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	query := fmt.Sprintf("SHOW CORTEX SEARCH SERVICES LIKE %s IN SCHEMA %s", QuoteLiteral(name), schema)

	bo := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
		backoff.WithMaxElapsedTime(opts.MaxElapsed),
	)

	var state string
	op := func() error {
		rows, err := exec.QueryMaps(ctx, query)
		if err != nil {
			return backoff.Permanent(err)
		}
		state = indexingState(rows)
		if state == "ACTIVE" {
			return nil
		}
		return ErrNotReady
	}

	notify := func(_ error, wait time.Duration) {
		logger.Debug("search service not active",
			zap.String("service", name),
			zap.String("state", state),
			zap.Duration("retry_in", wait))
	}

	err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
	if err == nil {
		return nil
	}
	if err == ErrNotReady {
		return errors.Wrap(err, errors.ErrCodeTimeout, fmt.Sprintf("Search service %s still %s", name, stateOrUnknown(state))).
			WithSeverity(errors.SeverityWarning).
			WithContext("service", name)
	}
	return err
}

func indexingState(rows []map[string]interface{}) string {
	if len(rows) == 0 {
		return ""
	}
	for _, key := range []string{"indexing_state", "serving_state"} {
		if v, ok := rows[0][key]; ok && v != nil {
			return strings.ToUpper(fmt.Sprint(v))
		}
	}
	return ""
}

func stateOrUnknown(state string) string {
	if state == "" {
		return "missing"
	}
	return state
}
