package models

import (
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentItem struct {
	gorm.Model
	CourseID    uint `gorm:"index"`
	Title       string
	Description string
	FileURL     string
	Duration    string
	Sequence    int // display/playback order, contiguous from 1 per course
	Transcript  datatypes.JSON
}

// TranscriptSegment is the JSON shape stored in ContentItem.Transcript.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SortBySequence orders items in place by their Sequence field.
func SortBySequence(items []ContentItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
	})
}

// NextSequence returns the sequence for a new item appended to the course.
func NextSequence(items []ContentItem) int {
	max := 0
	for _, item := range items {
		if item.Sequence > max {
			max = item.Sequence
		}
	}
	return max + 1
}

// MoveAdjacent swaps the item at idx with its neighbor above (up) or
// below. Items must be ordered by sequence. Returns false when idx is
// already at the edge, leaving the slice untouched.
func MoveAdjacent(items []ContentItem, idx int, up bool) bool {
	other := idx + 1
	if up {
		other = idx - 1
	}
	if idx < 0 || idx >= len(items) || other < 0 || other >= len(items) {
		return false
	}
	items[idx].Sequence, items[other].Sequence = items[other].Sequence, items[idx].Sequence
	items[idx], items[other] = items[other], items[idx]
	return true
}

// MoveToPosition removes the item at from, re-inserts it at to and
// renumbers every item to its 1-based position. Items must be ordered
// by sequence. Returns the reordered slice; ok is false for
// out-of-range indices.
func MoveToPosition(items []ContentItem, from, to int) ([]ContentItem, bool) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items, false
	}
	moved := items[from]
	out := make([]ContentItem, 0, len(items))
	for i, item := range items {
		if i != from {
			out = append(out, item)
		}
	}
	out = append(out, ContentItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	Renumber(out)
	return out, true
}

// Renumber rewrites every sequence to its 1-based slice position.
func Renumber(items []ContentItem) {
	for i := range items {
		items[i].Sequence = i + 1
	}
}
