package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasalog/internal/model"
	"kasalog/internal/parse"
)

func TestGeneratedLinesParse(t *testing.T) {
	gen := newGenerator(rand.New(rand.NewSource(1)), 0)
	now := time.Date(2024, 6, 24, 15, 27, 29, 669455000, time.FixedZone("", 3*3600))

	for i := 1; i <= 200; i++ {
		rec, err := parse.Decode(gen.line(now), i)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-24 15:27:29.669", rec.Timestamp)
		assert.NotEmpty(t, rec.Message)
		assert.Contains(t, rec.ExtraMap(), "request_id")
		if rec.Level != "SUCCESS" {
			assert.NotEqual(t, model.TagUnknown, rec.Tag(), rec.Level)
		}
	}
}

func TestMalformedLinesFail(t *testing.T) {
	gen := newGenerator(rand.New(rand.NewSource(2)), 1)

	for i := 1; i <= 50; i++ {
		_, err := parse.Decode(gen.line(time.Now()), i)
		assert.Error(t, err)
	}
}
