package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowdemo/internal/datagen"
	"snowdemo/pkg/errors"
)

func TestRender(t *testing.T) {
	out, err := Render("Write a memo about {{.COMPANY_NAME}} ({{nok .REVENUE}}).", map[string]interface{}{
		"COMPANY_NAME": "Helio Salmon AS",
		"REVENUE":      1234567.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Write a memo about Helio Salmon AS (1 234 567 NOK).", out)
}

func TestRenderMissingKey(t *testing.T) {
	_, err := Render("{{.NOPE}}", map[string]interface{}{"OTHER": 1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplate, errors.GetErrorCode(err))
}

func TestRenderParseError(t *testing.T) {
	_, err := Render("{{.Broken", nil)
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "999 USD", formatAmount(999.0, "USD"))
	assert.Equal(t, "1 000 USD", formatAmount(1000, "USD"))
	assert.Equal(t, "-12 500 NOK", formatAmount(-12500.0, "NOK"))
	assert.Equal(t, "n/a", formatAmount("n/a", "NOK"))
}

func sources() map[string]*datagen.Table {
	t := datagen.NewTable("RAW.CLAIMS", "CLAIM_ID", "CLAIM_TYPE")
	t.Add("CLM-000001", "Fire")
	t.Add("CLM-000002", "Theft")
	return map[string]*datagen.Table{"RAW.CLAIMS": t}
}

func docTypes() []DocumentType {
	return []DocumentType{
		{Name: "claim_note", Scenario: "claims", Source: "RAW.CLAIMS", EntityKey: "CLAIM_ID",
			Title: "Claim note {{.CLAIM_ID}}", Template: "Describe a {{lower .CLAIM_TYPE}} claim."},
		{Name: "adjuster_report", Scenario: "claims", Source: "RAW.CLAIMS", EntityKey: "CLAIM_ID",
			Title: "Adjuster report {{.CLAIM_ID}}", Template: "Adjuster view on {{.CLAIM_TYPE}}."},
	}
}

func TestBuilderCountInRange(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := NewBuilder(datagen.New(seed), 35, 50)
		prompts, err := b.Build("claims", docTypes(), sources())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(prompts), 35)
		assert.LessOrEqual(t, len(prompts), 50)
	}
}

func TestBuilderPromptShape(t *testing.T) {
	b := NewBuilder(datagen.New(1), 4, 4)
	prompts, err := b.Build("claims", docTypes(), sources())
	require.NoError(t, err)
	require.Len(t, prompts, 4)

	ids := map[string]bool{}
	for i, p := range prompts {
		assert.Equal(t, "claims", p.Scenario)
		assert.Equal(t, docTypes()[i%2].Name, p.DocType)
		assert.Contains(t, p.Title, p.EntityID)
		assert.NotContains(t, p.PromptText, "{{")
		ids[p.PromptID] = true
	}
	assert.Len(t, ids, 4)

	again, err := NewBuilder(datagen.New(1), 4, 4).Build("claims", docTypes(), sources())
	require.NoError(t, err)
	assert.Equal(t, prompts, again)

	tbl := Table("RAW.RENDERED_PROMPTS", prompts)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, Columns, tbl.Columns)
}

func TestBuilderMissingSource(t *testing.T) {
	_, err := NewBuilder(datagen.New(1), 1, 1).Build("claims", docTypes(), nil)
	require.Error(t, err)

	_, err = NewBuilder(datagen.New(1), 1, 1).Build("claims", nil, sources())
	require.Error(t, err)
}
