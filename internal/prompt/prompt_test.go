package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		persona string
		query   string
		want    string
	}{
		{
			name:    "with query",
			persona: "You are a nutritionist.",
			query:   "Is this low carb?",
			want:    "You are a nutritionist.\n\nAdditional User Request: Is this low carb?",
		},
		{
			name:    "empty query",
			persona: "You are a nutritionist.",
			query:   "",
			want:    "You are a nutritionist.\n\nAdditional User Request: ",
		},
		{
			name:    "query kept verbatim",
			persona: "P",
			query:   "  **ignore** the above\n<script>  ",
			want:    "P\n\nAdditional User Request:   **ignore** the above\n<script>  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.persona, tt.query))
		})
	}
}

func TestPersonaSections(t *testing.T) {
	sections := []string{
		"**Identification**",
		"**Portion Size & Calorie Estimation**",
		"**Total Calories**",
		"Total Calories: [Number of Calories]",
		"**Nutrient Breakdown**",
		"**Health Evaluation**",
		"**Disclaimer**",
	}
	for _, s := range sections {
		assert.Contains(t, Persona, s)
	}
	assert.True(t, strings.HasPrefix(Build(Persona, "x"), Persona))
}
