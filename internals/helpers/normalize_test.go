package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	decomposed := "  Amélie   Dupont "
	assert.Equal(t, "Amélie Dupont", NormalizeName(decomposed))
}

func TestEmailLocalPart(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Amélie", "Dupont", "amelie.dupont"},
		{"Jean Pierre", "D'Alembert", "jean-pierre.dalembert"},
		{"  Zoé ", "Müller", "zoe.muller"},
		{"", "", "etudiant"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmailLocalPart(tt.first, tt.last), "%s %s", tt.first, tt.last)
	}
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueIDs([]uint{3, 0, 1, 3, 2, 1}))
	assert.Empty(t, UniqueIDs(nil))
}
