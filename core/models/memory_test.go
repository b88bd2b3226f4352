package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateMemoryVariants(t *testing.T) {
	tests := []struct {
		model    string
		wantGB   int
		category string
	}{
		{"llama3.2:1b", 2, "Small (up to 4GB)"},
		{"gemma2:2b", 3, "Small (up to 4GB)"},
		{"llama3.2:3b", 4, "Small (up to 4GB)"},
		{"phi3.5:mini", 2, "Small (up to 4GB)"},
		{"mistral:7b", 9, "Medium (4-16GB)"},
		{"llama3.1:8b", 10, "Medium (4-16GB)"},
		{"qwen2:13b", 16, "Medium (4-16GB)"},
		{"yi:34b", 45, "Large (16-64GB)"},
		{"llama3.1:70b", 96, "Extra Large (64GB+)"},
		{"llama3.1:405b", 540, "Extra Large (64GB+)"},
		{"mistral:instruct", 9, "Medium (4-16GB)"},
		{"codestral:latest", 9, "Medium (4-16GB)"},
		{"mixtral:8x7b", 9, "Medium (4-16GB)"},
	}
	for _, tt := range tests {
		got := EstimateMemory(tt.model)
		assert.Equal(t, tt.wantGB, got.EstimatedRAMGB, "model %s", tt.model)
		assert.Equal(t, tt.category, got.Category, "model %s", tt.model)
		assert.Equal(t, tt.model, got.Model)
	}
}

// Longer size tags must win over their substrings: 13b is a 14GB-class
// model, not a 3b one.
func TestEstimateMemorySpecificTagWins(t *testing.T) {
	assert.Equal(t, 16, EstimateMemory("llama2:13b").EstimatedRAMGB)
	assert.Equal(t, 43, EstimateMemory("codellama:33b").EstimatedRAMGB)
	assert.Equal(t, 14, EstimateMemory("falcon:11b").EstimatedRAMGB)
}

func TestEstimateMemoryFamilyInference(t *testing.T) {
	tests := []struct {
		model  string
		wantGB int
	}{
		{"tinyllama", 3},
		{"phi3.5", 3},
		{"llama3.2", 9},
		{"gemma2", 9},
		{"mistral", 9},
		{"mixtral", 14},
		{"qwen2.5", 14},
		{"codellama", 18},
		{"deepseek-coder", 18},
		{"somethingelse", 9},
	}
	for _, tt := range tests {
		got := EstimateMemory(tt.model)
		assert.Equal(t, tt.wantGB, got.EstimatedRAMGB, "model %s", tt.model)
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	assert.Equal(t, "Small (up to 4GB)", Categorize(4))
	assert.Equal(t, "Medium (4-16GB)", Categorize(5))
	assert.Equal(t, "Medium (4-16GB)", Categorize(16))
	assert.Equal(t, "Large (16-64GB)", Categorize(17))
	assert.Equal(t, "Large (16-64GB)", Categorize(64))
	assert.Equal(t, "Extra Large (64GB+)", Categorize(65))
}

func TestEstimateMemoryCaseInsensitive(t *testing.T) {
	assert.Equal(t, EstimateMemory("mistral:7b"), MemoryInfo{
		Model:          "mistral:7b",
		EstimatedRAMGB: 9,
		Category:       "Medium (4-16GB)",
	})
	upper := EstimateMemory("Mistral:7B")
	assert.Equal(t, 9, upper.EstimatedRAMGB)
}
