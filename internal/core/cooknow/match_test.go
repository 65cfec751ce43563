package cooknow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		pantry string
		recipe string
		want   bool
	}{
		{name: "identical", pantry: "egg", recipe: "Eggs", want: true},
		{name: "synonym", pantry: "coriander", recipe: "cilantro", want: true},
		{name: "overlap ratio at threshold", pantry: "chicken thigh", recipe: "chicken breast", want: true},
		{name: "substring containment", pantry: "basil", recipe: "fresh basil leaves", want: true},
		{name: "multi word synonym", pantry: "spring onions", recipe: "scallion", want: true},
		{name: "unrelated", pantry: "flour", recipe: "butter", want: false},
		{name: "empty pantry text", pantry: "", recipe: "egg", want: false},
		{name: "empty recipe text", pantry: "egg", recipe: " ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.pantry, tt.recipe))
		})
	}
}

func TestMatchesIsAsymmetric(t *testing.T) {
	// 覆蓋率只以食譜詞數為分母
	assert.False(t, Matches("chicken thigh", "chicken stock powder"))
	assert.True(t, Matches("chicken stock powder", "chicken thigh"))
}
