package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUserValidate(t *testing.T) {
	valid := User{
		ID:         1,
		Sport:      "Cricket",
		SkillLevel: SkillIntermediate,
		Latitude:   19.0760,
		Longitude:  72.8777,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(u *User)
	}{
		{"missing id", func(u *User) { u.ID = 0 }},
		{"missing sport", func(u *User) { u.Sport = "" }},
		{"missing skill level", func(u *User) { u.SkillLevel = "" }},
		{"latitude out of range", func(u *User) { u.Latitude = 91 }},
		{"longitude out of range", func(u *User) { u.Longitude = -181 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			assert.Error(t, u.Validate())
		})
	}
}

func TestEffectiveRating(t *testing.T) {
	rated := User{Rating: 4.2}
	assert.Equal(t, 4.2, rated.EffectiveRating())

	unrated := User{}
	assert.Equal(t, 5.0, unrated.EffectiveRating(), "unset rating defaults to a perfect score")

	negative := User{Rating: -1}
	assert.Equal(t, 5.0, negative.EffectiveRating())
}

func TestAvailabilityIsEmpty(t *testing.T) {
	assert.True(t, Availability{}.IsEmpty())
	assert.False(t, Availability{Days: pq.StringArray{"Mon"}, TimeRange: "18:00-20:00"}.IsEmpty())
}
