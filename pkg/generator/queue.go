package generator

import "github.com/hodaniel/graphwalker/pkg/domain"

// candidate is a search state: a path from the search origin together with the
// fulfilment measured after walking it and the sub-state it ends in.
type candidate struct {
	path       domain.Path
	fulfilment float64
	subState   string
	seq        int
}

// candidateQueue is a min-heap ordered by fulfilment, then path length, then
// insertion order.
type candidateQueue []*candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if q[i].fulfilment != q[j].fulfilment {
		return q[i].fulfilment < q[j].fulfilment
	}
	if len(q[i].path) != len(q[j].path) {
		return len(q[i].path) < len(q[j].path)
	}
	return q[i].seq < q[j].seq
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) {
	*q = append(*q, x.(*candidate))
}

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
