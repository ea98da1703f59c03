package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Matériel", "materiel"},
		{"DÉROULEMENT", "deroulement"},
		{"déjà vu", "deja vu"},
		{"Cœur", "cœur"}, // ligature is not a combining mark
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"melangez", "les", "tuiles", "terrain"},
		Tokenize("Mélangez les tuiles-terrain !"))
	assert.Equal(t,
		[]string{"2", "joueurs"},
		Tokenize("2 joueurs"))
	assert.Empty(t, Tokenize("?! ..."))
}

func TestMatchQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"points de victoire", "points AND de AND victoire"},
		{"Où placer le voleur ?", "ou AND placer AND le AND voleur"},
		{"a à y", ""}, // single-char tokens dropped
		{"", ""},
		{"  !!  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchQuery(tt.in), "MatchQuery(%q)", tt.in)
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("un  deux\ntrois"))
}
