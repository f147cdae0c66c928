package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   Category
		want Category
	}{
		{"MOST_IMPORTANT", CategoryActionable},
		{"MODERATELY_IMPORTANT", CategoryInformational},
		{CategoryActionable, CategoryActionable},
		{CategoryInformational, CategoryInformational},
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.in))
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, in := range []Category{"MOST_IMPORTANT", "MODERATELY_IMPORTANT", CategoryActionable, "weird"} {
		once := NormalizeCategory(in)
		assert.Equal(t, once, NormalizeCategory(once))
	}
}

func TestNormalizeEmails(t *testing.T) {
	emails := []TriageEmail{
		{Category: "MOST_IMPORTANT"},
		{Category: "MODERATELY_IMPORTANT"},
		{Category: CategoryActionable},
	}

	normalized := NormalizeEmails(emails)

	assert.Equal(t, CategoryActionable, normalized[0].Category)
	assert.Equal(t, CategoryInformational, normalized[1].Category)
	assert.Equal(t, CategoryActionable, normalized[2].Category)

	// Already-canonical input is returned unchanged
	assert.Equal(t, normalized, NormalizeEmails(normalized))
}
