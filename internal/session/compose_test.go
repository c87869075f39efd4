package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/types"
)

func TestComposePeriods(t *testing.T) {
	tests := []struct {
		name    string
		periods []PeriodText
		want    string
	}{
		{
			name:    "single period single document",
			periods: []PeriodText{{Year: "2024", Documents: []string{"foo"}}},
			want:    "--- INICIO PERÍODO: 2024 ---\n\nfoo\n\n--- FIN PERÍODO: 2024 ---\n\n",
		},
		{
			name: "documents joined within a period",
			periods: []PeriodText{
				{Year: "2022", Documents: []string{"foo"}},
				{Year: "2023", Documents: []string{"bar", "baz"}},
			},
			want: "--- INICIO PERÍODO: 2022 ---\n\nfoo\n\n--- FIN PERÍODO: 2022 ---\n\n" +
				"--- INICIO PERÍODO: 2023 ---\n\nbar\n\n---\n\nbaz\n\n--- FIN PERÍODO: 2023 ---\n\n",
		},
		{
			name: "input order is kept",
			periods: []PeriodText{
				{Year: "2024", Documents: []string{"new"}},
				{Year: "2020", Documents: []string{"old"}},
			},
			want: "--- INICIO PERÍODO: 2024 ---\n\nnew\n\n--- FIN PERÍODO: 2024 ---\n\n" +
				"--- INICIO PERÍODO: 2020 ---\n\nold\n\n--- FIN PERÍODO: 2020 ---\n\n",
		},
		{
			name: "no periods",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposePeriods(tt.periods))
		})
	}
}

func TestPeriodText_HasText(t *testing.T) {
	assert.True(t, PeriodText{Documents: []string{"", "x"}}.HasText())
	assert.False(t, PeriodText{Documents: []string{"", "  \n"}}.HasText())
	assert.False(t, PeriodText{}.HasText())
}

func TestExtractPeriods_KeepsDocumentOrder(t *testing.T) {
	ex := &fakeExtractor{texts: map[string]string{"a.pdf": "A", "b.pdf": "B", "c.pdf": "C"}}

	got, err := extractPeriods(context.Background(), ex, []types.EvaluationPeriod{
		period(" 2023 ", "c.pdf", "a.pdf", "b.pdf"),
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2023", got[0].Year)
	assert.Equal(t, []string{"C", "A", "B"}, got[0].Documents)
}

func TestExtractPeriods_ErrorNamesPeriod(t *testing.T) {
	corrupt := &ingestion.CorruptDocumentError{Name: "bad.pdf", Message: "not a PDF"}
	ex := &fakeExtractor{
		texts: map[string]string{"a.pdf": "A"},
		errs:  map[string]error{"bad.pdf": corrupt},
	}

	_, err := extractPeriods(context.Background(), ex, []types.EvaluationPeriod{
		period("2023", "a.pdf"),
		period("2024", "bad.pdf"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "period 2024")
	var target *ingestion.CorruptDocumentError
	assert.True(t, errors.As(err, &target))
}
