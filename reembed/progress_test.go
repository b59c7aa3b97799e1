package reembed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 5)
	tracker.Start()

	tracker.Update(3)
	assert.Empty(t, out.String())

	tracker.Update(5)
	assert.Contains(t, out.String(), "5/10")
	assert.Contains(t, out.String(), "50.0%")
}

func TestProgressTracker_FinishPrintsTotal(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 7, 100)
	tracker.Start()
	tracker.Update(3)
	tracker.Finish()

	assert.Contains(t, out.String(), "7/7")
	assert.Contains(t, out.String(), "100.0%")
}

func TestProgressTracker_IgnoresUpdatesBeforeStart(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 1)

	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, out.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 4, 1)
	tracker.Start()

	tracker.Update(9)
	assert.Contains(t, out.String(), "4/4")
}
