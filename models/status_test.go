package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
		valid    bool
	}{
		{name: "canonical New", input: "New", expected: StatusNew, valid: true},
		{name: "canonical Processing", input: "Processing", expected: StatusProcessing, valid: true},
		{name: "canonical Finished", input: "Finished", expected: StatusFinished, valid: true},
		{name: "lowercase canonical", input: "processing", expected: StatusProcessing, valid: true},
		{name: "uppercase canonical", input: "FINISHED", expected: StatusFinished, valid: true},
		{name: "legacy Novo", input: "Novo", expected: StatusNew, valid: true},
		{name: "legacy Processando", input: "Processando", expected: StatusProcessing, valid: true},
		{name: "legacy Finalizado", input: "Finalizado", expected: StatusFinished, valid: true},
		{name: "legacy mixed case", input: "pRoCeSsAnDo", expected: StatusProcessing, valid: true},
		{name: "surrounding whitespace", input: "  New  ", expected: StatusNew, valid: true},
		{name: "unknown value", input: "Shipped", valid: false},
		{name: "empty string", input: "", valid: false},
		{name: "whitespace only", input: "   ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.expected, status)
			}
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusNew.IsValid())
	assert.True(t, StatusProcessing.IsValid())
	assert.True(t, StatusFinished.IsValid())
	assert.False(t, Status("Cancelled").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAllStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusNew, StatusProcessing, StatusFinished}, AllStatuses())
}
