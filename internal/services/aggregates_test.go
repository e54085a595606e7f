package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCeilTen(t *testing.T) {
	// avg(100, 200, 300) = 200, already a multiple of ten
	assert.Equal(t, 200.0, RoundCeilTen(200))

	// avg(100, 200, 250) = 183.33... rounds up
	assert.Equal(t, 190.0, RoundCeilTen(183.3333))

	assert.Equal(t, 10.0, RoundCeilTen(1))
	assert.Equal(t, 0.0, RoundCeilTen(0))
	assert.Equal(t, 130.0, RoundCeilTen(121))
}

func TestRoundIdentityKeepsRatingAverages(t *testing.T) {
	// avg(5, 6) = 5.5 stays exact
	assert.Equal(t, 5.5, roundIdentity(5.5))
	assert.Equal(t, 7.0, roundIdentity(7.0))
}
