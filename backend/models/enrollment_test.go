package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	// a course with no lessons is 0 percent, not a division by zero
	assert.Equal(t, 0, ProgressPercent(0, 0))
	assert.Equal(t, 0, ProgressPercent(3, 0))

	assert.Equal(t, 0, ProgressPercent(0, 10))
	assert.Equal(t, 50, ProgressPercent(2, 4))
	assert.Equal(t, 33, ProgressPercent(1, 3))
	assert.Equal(t, 67, ProgressPercent(2, 3))
	assert.Equal(t, 100, ProgressPercent(5, 5))
}

func TestStatusForProgress(t *testing.T) {
	assert.Equal(t, EnrollmentActive, StatusForProgress(0))
	assert.Equal(t, EnrollmentActive, StatusForProgress(99))
	assert.Equal(t, EnrollmentCompleted, StatusForProgress(100))
}
