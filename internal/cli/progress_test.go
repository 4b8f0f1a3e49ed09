package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchProgressTracksPages(t *testing.T) {
	var buf bytes.Buffer
	p := NewFetchProgress(&buf, "Fetching members")

	assert.Zero(t, p.Total())
	assert.Zero(t, p.Fetched())

	p.OnPage(1000, 2500)
	assert.Equal(t, 2500, p.Total())
	assert.Equal(t, 1000, p.Fetched())

	p.OnPage(2000, 2500)
	p.OnPage(2500, 2500)
	assert.Equal(t, 2500, p.Fetched())

	p.Finish()
	assert.Contains(t, buf.String(), "Fetching members")
}

func TestFetchProgressIgnoresUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewFetchProgress(&buf, "Fetching")

	p.OnPage(300, 500)
	p.OnPage(400, 0)

	assert.Equal(t, 500, p.Total())
	assert.Equal(t, 400, p.Fetched())
}

func TestFetchProgressWithoutPages(t *testing.T) {
	var buf bytes.Buffer
	p := NewFetchProgress(&buf, "Fetching")

	p.Finish()
	assert.Empty(t, buf.String())
}
