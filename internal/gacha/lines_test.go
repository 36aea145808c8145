package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"trims_and_drops_blanks", " Heal \n\n Shield \n", []string{"Heal", "Shield"}},
		{"empty", "", nil},
		{"only_whitespace", " \n\t\n ", nil},
		{"single_line", "Burn", []string{"Burn"}},
		{"order_preserved", "c\na\nb", []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestJoinLinesRoundTrip(t *testing.T) {
	lists := [][]string{
		{"Heal", "Shield"},
		{"one"},
		nil,
	}
	for _, list := range lists {
		assert.Equal(t, list, SplitLines(JoinLines(list)))
	}
}
