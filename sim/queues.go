// Implements the per-category consultation queues. Patients enter on triage
// completion and leave when the dispatcher starts their consultation or when
// an abandonment signal pulls them out.

package sim

// CategoryQueues holds one FIFO queue per triage category for patients
// awaiting consultation. Dispatch order: most-urgent non-empty queue first,
// FIFO within a category. A patient is in at most one queue, only while
// WAITING_CONSULTATION; abandoned entries are dropped lazily.
type CategoryQueues struct {
	queues [NumCategories][]*Patient
}

// NewCategoryQueues creates empty queues.
func NewCategoryQueues() *CategoryQueues {
	return &CategoryQueues{}
}

// Enqueue appends the patient to its verdict's category queue.
func (cq *CategoryQueues) Enqueue(p *Patient) {
	c := p.Verdict.Category
	cq.queues[c] = append(cq.queues[c], p)
}

// PopMostUrgent removes and returns the head of the most urgent non-empty
// queue, skipping patients no longer waiting. Returns nil when every queue
// is empty.
func (cq *CategoryQueues) PopMostUrgent() *Patient {
	for c := range cq.queues {
		for len(cq.queues[c]) > 0 {
			p := cq.queues[c][0]
			cq.queues[c] = cq.queues[c][1:]
			if p.State == StateWaitingConsultation {
				return p
			}
			// lazily dropped (abandoned while queued)
		}
	}
	return nil
}

// Len returns the number of live waiters in the given category's queue.
func (cq *CategoryQueues) Len(c Category) int {
	n := 0
	for _, p := range cq.queues[c] {
		if p.State == StateWaitingConsultation {
			n++
		}
	}
	return n
}

// TotalLen returns the number of live waiters across all categories.
func (cq *CategoryQueues) TotalLen() int {
	n := 0
	for _, c := range Categories() {
		n += cq.Len(c)
	}
	return n
}
