package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnrollmentStatusAliases(t *testing.T) {
	cases := map[string]EnrollmentStatus{
		"":             EnrollmentActive,
		"  ":           EnrollmentActive,
		"ACTIVE":       EnrollmentActive,
		"cursando":     EnrollmentActive,
		"Ativo":        EnrollmentActive,
		"desistente":   EnrollmentDropout,
		"EVADIDO":      EnrollmentDropout,
		"Transferida":  EnrollmentTransferred,
		"outro":        EnrollmentOther,
		"matriculado?": EnrollmentOther,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseEnrollmentStatus(input), "input %q", input)
	}
}

func TestLooksLikeEnrollmentStatus(t *testing.T) {
	assert.True(t, LooksLikeEnrollmentStatus("Cursando"))
	assert.True(t, LooksLikeEnrollmentStatus(" evadido "))
	assert.False(t, LooksLikeEnrollmentStatus("c-6a"))
	assert.False(t, LooksLikeEnrollmentStatus(""))
}
