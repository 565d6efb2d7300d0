package provision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/ui"
	"snowdemo/internal/validate"
	"snowdemo/pkg/errors"
)

func (r *Runner) runDDL(ctx context.Context, result *StepResult) error {
	for _, stmt := range r.vertical.DatabaseDDL() {
		result.Statements++
		if _, err := r.exec.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.GetErrorCode(err), fmt.Sprintf("Failed to create database %s", r.vertical.Database)).
				WithContext("statement", stmt).
				AsFatal()
		}
	}
	r.ui.Success("database %s with schemas %v", r.vertical.Database, r.vertical.Schemas)

	for _, stmt := range r.vertical.TableStatements() {
		label := objectName(stmt)
		if r.execStatement(ctx, result, label, stmt) {
			r.ui.Success("table %s", label)
		}
	}
	return nil
}

// generateTables builds the structured tables once per run; later steps
// reuse them.
func (r *Runner) generateTables() ([]*datagen.Table, error) {
	if r.tables != nil {
		return r.tables, nil
	}
	tables, err := r.vertical.Generate(r.generator("data"), r.opts.Scale)
	if err != nil {
		return nil, err
	}
	r.tables = tables
	return tables, nil
}

func (r *Runner) runData(ctx context.Context, result *StepResult) error {
	tables, err := r.generateTables()
	if err != nil {
		return err
	}

	for _, t := range tables {
		result.Statements++
		res, err := r.loader.Load(ctx, t, true)
		if err != nil {
			r.fail(result, t.Name, err)
			continue
		}
		r.ui.Success("%s: %d rows", t.Name, res.Rows)
	}
	return nil
}

func (r *Runner) runDocuments(ctx context.Context, result *StepResult) error {
	tables, err := r.generateTables()
	if err != nil {
		return err
	}
	sources := make(map[string]*datagen.Table, len(tables))
	for _, t := range tables {
		sources[t.Name] = t
	}

	schema := r.vertical.DocSchema

	if !r.opts.DryRun {
		result.Statements++
		if _, err := r.exec.QueryMaps(ctx, cortex.ProbeSQL(r.opts.Model)); err != nil {
			r.fail(result, fmt.Sprintf("model %s", r.opts.Model), err)
			return nil
		}
	}

	for _, sc := range r.scenarios {
		builder := prompts.NewBuilder(r.generator("documents/"+sc.Name), r.opts.DocMin, r.opts.DocMax)
		rendered, err := builder.Build(sc.Name, sc.Documents, sources)
		if err != nil {
			r.fail(result, sc.Name, err)
			continue
		}

		if !r.execStatement(ctx, result, sc.Name+" prompts",
			fmt.Sprintf("DELETE FROM %s WHERE SCENARIO = %s", r.vertical.PromptTable(), cortex.QuoteLiteral(sc.Name))) {
			continue
		}
		result.Statements++
		if _, err := r.loader.Load(ctx, prompts.Table(r.vertical.PromptTable(), rendered), false); err != nil {
			r.fail(result, sc.Name+" prompts", err)
			continue
		}
		r.ui.Success("%s: %d prompts rendered", sc.Name, len(rendered))

		if !r.execStatement(ctx, result, sc.Name+" documents", cortex.DeleteDocumentsSQL(schema, sc.Name)) {
			continue
		}

		r.ui.StartProgress(fmt.Sprintf("%s: generating %d documents with %s", sc.Name, len(rendered), r.opts.Model))
		result.Statements++
		n, err := r.exec.Exec(ctx, cortex.BulkGenerateDocumentsSQL(schema, r.opts.Model, sc.Name))
		if err != nil {
			r.ui.StopProgress(false, fmt.Sprintf("%s: document generation failed", sc.Name))
			r.fail(result, sc.Name+" documents", err)
			continue
		}
		r.ui.StopProgress(true, fmt.Sprintf("%s: %d documents generated", sc.Name, n))
		r.logger.Info("documents generated",
			zap.String("scenario", sc.Name),
			zap.Int("prompts", len(rendered)),
			zap.Int64("documents", n))
	}
	return nil
}

func (r *Runner) runSearch(ctx context.Context, result *StepResult) {
	if r.opts.Warehouse == "" {
		r.fail(result, "search services", errors.New(errors.ErrCodeConfigMissing, "no warehouse configured").
			WithSuggestions("Set 'warehouse' in config.yaml or in the connection"))
		return
	}

	for _, sc := range r.scenarios {
		for _, svc := range sc.Search {
			ddl := svc.DDL(r.vertical.DocSchema, r.opts.Warehouse, r.opts.TargetLag)
			if !r.execStatement(ctx, result, svc.Name, ddl) {
				continue
			}
			r.ui.Success("search service %s", svc.Name)

			if !r.opts.WaitForSearch || r.opts.DryRun {
				continue
			}
			if err := cortex.WaitForSearchService(ctx, r.exec, r.vertical.DocSchema, svc.Name, r.opts.Wait, r.logger); err != nil {
				if errors.GetErrorCode(err) == errors.ErrCodeTimeout {
					r.warn(result, firstLine(err.Error()))
					continue
				}
				r.fail(result, svc.Name, err)
			}
		}
	}
}

func (r *Runner) runSemantic(ctx context.Context, result *StepResult) {
	for _, view := range r.vertical.SemanticViews {
		if r.execStatement(ctx, result, view.Name, view.DDL(r.vertical.Database, r.vertical.DocSchema)) {
			r.ui.Success("semantic view %s", view.Name)
		}
	}
}

func (r *Runner) runValidate(ctx context.Context, result *StepResult) []validate.Result {
	checks := r.vertical.Checks(r.vertical.TableNames(), r.scenarios, r.opts.DocMin, r.opts.DocMax)
	results := validate.RunAll(ctx, r.exec, checks)
	result.Statements += len(checks)

	if r.opts.DryRun {
		r.ui.Info("%d validation queries printed", len(checks))
		return nil
	}

	if !r.ui.Quiet {
		validate.NewReport(ui.SupportsColor()).Render(r.ui.Out, results)
	}
	for _, res := range results {
		switch res.Status {
		case validate.StatusFail:
			r.logger.Error("check failed", zap.String("check", res.Name), zap.String("detail", res.Detail))
		case validate.StatusWarn:
			r.logger.Warn("check warning", zap.String("check", res.Name), zap.String("detail", res.Detail))
		}
	}
	return results
}

// objectName extracts the object name from CREATE ... TABLE name (...).
func objectName(stmt string) string {
	var prev string
	word := ""
	for _, c := range stmt + " " {
		if c == ' ' || c == '\n' || c == '(' {
			if word != "" {
				if prev == "TABLE" {
					return word
				}
				prev = word
				word = ""
			}
			continue
		}
		word += string(c)
	}
	return firstLine(stmt)
}
