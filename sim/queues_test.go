package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func queuedPatient(c Category) *Patient {
	p := NewPatient(0, 30, "M", "test", nil, nil)
	p.State = StateWaitingConsultation
	p.Verdict = &TriageVerdict{Category: c, Priority: c.Priority()}
	return p
}

func TestCategoryQueues_MostUrgentFirst(t *testing.T) {
	// GIVEN waiters across three categories, enqueued least urgent first
	cq := NewCategoryQueues()
	blue := queuedPatient(CategoryBlue)
	yellow := queuedPatient(CategoryYellow)
	red := queuedPatient(CategoryRed)
	cq.Enqueue(blue)
	cq.Enqueue(yellow)
	cq.Enqueue(red)

	// THEN dispatch order is urgency order regardless of arrival order
	assert.Equal(t, red, cq.PopMostUrgent())
	assert.Equal(t, yellow, cq.PopMostUrgent())
	assert.Equal(t, blue, cq.PopMostUrgent())
	assert.Nil(t, cq.PopMostUrgent())
}

func TestCategoryQueues_FIFOWithinCategory(t *testing.T) {
	cq := NewCategoryQueues()
	first := queuedPatient(CategoryGreen)
	second := queuedPatient(CategoryGreen)
	cq.Enqueue(first)
	cq.Enqueue(second)

	assert.Equal(t, first, cq.PopMostUrgent())
	assert.Equal(t, second, cq.PopMostUrgent())
}

func TestCategoryQueues_AbandonedEntriesAreSkipped(t *testing.T) {
	// GIVEN a queue whose head abandoned while waiting
	cq := NewCategoryQueues()
	gone := queuedPatient(CategoryYellow)
	stays := queuedPatient(CategoryYellow)
	cq.Enqueue(gone)
	cq.Enqueue(stays)
	gone.State = StateLeftWithoutBeingSeen

	// THEN the abandoned entry is dropped lazily
	assert.Equal(t, 1, cq.Len(CategoryYellow))
	assert.Equal(t, stays, cq.PopMostUrgent())
	assert.Nil(t, cq.PopMostUrgent())
}

func TestCategoryQueues_TotalLenCountsLiveWaitersOnly(t *testing.T) {
	cq := NewCategoryQueues()
	cq.Enqueue(queuedPatient(CategoryRed))
	gone := queuedPatient(CategoryBlue)
	cq.Enqueue(gone)
	gone.State = StateLeftWithoutBeingSeen

	assert.Equal(t, 1, cq.TotalLen())
}
