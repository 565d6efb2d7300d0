// Package prompts renders the LLM prompts that Cortex Complete turns into
// demo documents.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"snowdemo/internal/datagen"
	"snowdemo/pkg/errors"
)

// Columns of the RENDERED_PROMPTS table.
var Columns = []string{"PROMPT_ID", "SCENARIO", "DOC_TYPE", "ENTITY_ID", "TITLE", "PROMPT_TEXT"}

// promptNamespace scopes prompt ids so a seed reproduces the same ids.
var promptNamespace = uuid.MustParse("6f1c1a52-3c1e-4b0e-9a38-5d0e6b7f2a11")

// DocumentType describes one kind of generated document.
type DocumentType struct {
	Name     string
	Scenario string
	// Source is the generated table whose rows feed the template.
	Source string
	// EntityKey is the Source column identifying the entity.
	EntityKey string
	Title     string
	Template  string
}

// RenderedPrompt is one row of RENDERED_PROMPTS.
type RenderedPrompt struct {
	PromptID   string `json:"prompt_id"`
	Scenario   string `json:"scenario"`
	DocType    string `json:"doc_type"`
	EntityID   string `json:"entity_id"`
	Title      string `json:"title"`
	PromptText string `json:"prompt_text"`
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"nok":   func(v interface{}) string { return formatAmount(v, "NOK") },
	"usd":   func(v interface{}) string { return formatAmount(v, "USD") },
	"pct": func(v interface{}) string {
		f, _ := v.(float64)
		return fmt.Sprintf("%.1f%%", f*100)
	},
}

// Render executes tmpl against vars. Unknown placeholders are an error.
func Render(tmpl string, vars map[string]interface{}) (string, error) {
	t, err := parse("prompt", tmpl)
	if err != nil {
		return "", err
	}
	return execute(t, vars)
}

func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTemplate, fmt.Sprintf("Invalid template %s", name))
	}
	return t, nil
}

func execute(t *template.Template, vars map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTemplate, "Failed to render template").
			WithContext("template", t.Name())
	}
	return strings.TrimSpace(buf.String()), nil
}

// Builder turns generated entity rows into rendered prompts.
type Builder struct {
	g        *datagen.Generator
	min, max int
	cache    map[string]*template.Template
}

// NewBuilder returns a Builder producing between min and max prompts per
// scenario.
func NewBuilder(g *datagen.Generator, min, max int) *Builder {
	return &Builder{g: g, min: min, max: max, cache: make(map[string]*template.Template)}
}

// Build renders the prompts for one scenario. The total is drawn in
// [min, max] and spread round-robin over the scenario's document types;
// entity rows are reused when a source has fewer rows than needed.
func (b *Builder) Build(scenario string, types []DocumentType, sources map[string]*datagen.Table) ([]RenderedPrompt, error) {
	if len(types) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Scenario %s has no document types", scenario))
	}

	records := make([][]map[string]interface{}, len(types))
	for i, dt := range types {
		src, ok := sources[dt.Source]
		if !ok || src.Len() == 0 {
			return nil, errors.New(errors.ErrCodeRequiredField, fmt.Sprintf("No rows in %s for document type %s", dt.Source, dt.Name)).
				WithContext("scenario", scenario)
		}
		recs := src.Records()
		records[i] = datagen.Sample(b.g, recs, len(recs))
	}

	total := b.g.IntBetween(b.min, b.max)
	out := make([]RenderedPrompt, 0, total)
	cursor := make([]int, len(types))

	for n := 0; n < total; n++ {
		i := n % len(types)
		dt := types[i]
		rec := records[i][cursor[i]%len(records[i])]
		cursor[i]++

		p, err := b.render(scenario, dt, rec, n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (b *Builder) render(scenario string, dt DocumentType, rec map[string]interface{}, seq int) (RenderedPrompt, error) {
	body, err := b.template(dt.Name+".body", dt.Template)
	if err != nil {
		return RenderedPrompt{}, err
	}
	title, err := b.template(dt.Name+".title", dt.Title)
	if err != nil {
		return RenderedPrompt{}, err
	}

	text, err := execute(body, rec)
	if err != nil {
		return RenderedPrompt{}, errors.Wrap(err, errors.ErrCodeTemplate, fmt.Sprintf("Failed to render %s prompt", dt.Name))
	}
	heading, err := execute(title, rec)
	if err != nil {
		return RenderedPrompt{}, errors.Wrap(err, errors.ErrCodeTemplate, fmt.Sprintf("Failed to render %s title", dt.Name))
	}

	entity := fmt.Sprint(rec[dt.EntityKey])
	return RenderedPrompt{
		PromptID:   uuid.NewSHA1(promptNamespace, []byte(fmt.Sprintf("%s/%s/%s/%d", scenario, dt.Name, entity, seq))).String(),
		Scenario:   scenario,
		DocType:    dt.Name,
		EntityID:   entity,
		Title:      heading,
		PromptText: text,
	}, nil
}

func (b *Builder) template(name, text string) (*template.Template, error) {
	if t, ok := b.cache[name]; ok {
		return t, nil
	}
	t, err := parse(name, text)
	if err != nil {
		return nil, err
	}
	b.cache[name] = t
	return t, nil
}

// Table packs prompts into a loadable table named name.
func Table(name string, prompts []RenderedPrompt) *datagen.Table {
	t := datagen.NewTable(name, Columns...)
	for _, p := range prompts {
		t.Add(p.PromptID, p.Scenario, p.DocType, p.EntityID, p.Title, p.PromptText)
	}
	return t
}

func formatAmount(v interface{}, currency string) string {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	default:
		return fmt.Sprint(v)
	}

	s := fmt.Sprintf("%.0f", f)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return fmt.Sprintf("-%s %s", b.String(), currency)
	}
	return fmt.Sprintf("%s %s", b.String(), currency)
}
