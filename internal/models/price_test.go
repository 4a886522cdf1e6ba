package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"neogaming/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCoercePrice(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 59.99, 59.99},
		{"int", 40, 40},
		{"decimal string", "69.99", 69.99},
		{"padded string", " 12.5 ", 12.5},
		{"json number", json.Number("9.5"), 9.5},
		{"garbage string", "free", 0},
		{"nil", nil, 0},
		{"negative", -3.0, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.CoercePrice(tc.in)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestUserPublicOmitsPassword(t *testing.T) {
	u := models.User{ID: 7, Username: "neo", Email: "neo@example.com", Password: "$2a$10$hash"}

	body, err := json.Marshal(u)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "hash")
	assert.Equal(t, models.PublicUser{ID: 7, Username: "neo", Email: "neo@example.com"}, u.Public())
}
