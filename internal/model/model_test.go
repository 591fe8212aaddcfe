package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEqual(t, string(c), c.Label())
	}

	assert.False(t, Category("HORROR").Valid())
	assert.False(t, Category("programming").Valid())
	assert.Equal(t, "HORROR", Category("HORROR").Label())
	assert.Equal(t, "Programação", CategoryProgramming.Label())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "ana", (&User{Username: "ana"}).FullName())
	assert.Equal(t, "Ana Silva", (&User{Username: "ana", FirstName: "Ana", LastName: "Silva"}).FullName())
	assert.Equal(t, "Ana", (&User{Username: "ana", FirstName: "Ana"}).FullName())
}

func TestToday(t *testing.T) {
	today := Today()
	assert.Zero(t, today.Hour())
	assert.Zero(t, today.Minute())
	assert.Equal(t, "UTC", today.Location().String())
}
