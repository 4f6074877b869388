package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/go-set/v2"

	"waste-wrangler-service/internal/ports"
)

// WorkmateSphere returns every employee reachable from eid through shared
// trips, excluding eid. The result is sorted and never nil.
func (s *Scheduler) WorkmateSphere(ctx context.Context, eid int) []int {
	defer s.recoverPanic(ctx, opWorkmateSphere)

	ids, err := s.workmateSphere(ctx, eid)
	if err != nil {
		return []int{}
	}
	return ids
}

func (s *Scheduler) workmateSphere(ctx context.Context, eid int) (ids []int, err error) {
	defer s.observe(ctx, opWorkmateSphere)(&err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		visited := set.From([]int{eid})
		queue := []int{eid}
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]

			mates, err := tx.CoDrivers(ctx, next)
			if err != nil {
				return fmt.Errorf("workmate sphere of %d: %w", eid, err)
			}
			for _, m := range mates {
				if visited.Insert(m) {
					queue = append(queue, m)
				}
			}
		}

		visited.Remove(eid)
		ids = visited.Slice()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(ids)
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}
