package repository

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyMove returns the category ids in display order after updates.
func applyMove(t *testing.T, ordered []categorySlot, updates []categorySlot) []int64 {
	t.Helper()
	orders := make(map[int64]int, len(ordered))
	for _, s := range ordered {
		orders[s.ID] = s.Order
	}
	for _, u := range updates {
		_, ok := orders[u.ID]
		require.True(t, ok, "update for unknown id %d", u.ID)
		orders[u.ID] = u.Order
	}
	ids := make([]int64, 0, len(orders))
	seen := map[int]int64{}
	for id, o := range orders {
		prev, dup := seen[o]
		require.False(t, dup, "ids %d and %d share sort order %d", prev, id, o)
		seen[o] = id
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return orders[ids[i]] < orders[ids[j]] })
	return ids
}

func TestPlanMove(t *testing.T) {
	strict := []categorySlot{{ID: 1, Order: 1}, {ID: 2, Order: 2}, {ID: 3, Order: 5}}
	// after deleting a category, count+1 can repeat an existing order
	tied := []categorySlot{{ID: 1, Order: 1}, {ID: 2, Order: 2}, {ID: 3, Order: 2}, {ID: 4, Order: 3}}

	cases := []struct {
		name    string
		ordered []categorySlot
		id      int64
		dir     MoveDirection
		want    []int64
		err     error
	}{
		{"up", strict, 3, MoveUp, []int64{1, 3, 2}, nil},
		{"down", strict, 1, MoveDown, []int64{2, 1, 3}, nil},
		{"first cannot go up", strict, 1, MoveUp, nil, ErrCannotMove},
		{"last cannot go down", strict, 3, MoveDown, nil, ErrCannotMove},
		{"unknown id", strict, 9, MoveUp, nil, ErrNotFound},
		{"tie swaps by position", tied, 3, MoveUp, []int64{1, 3, 2, 4}, nil},
		{"tie elsewhere keeps a total order", tied, 4, MoveUp, []int64{1, 2, 4, 3}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updates, err := planMove(tc.ordered, tc.id, tc.dir)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, applyMove(t, tc.ordered, updates))
		})
	}
}

func TestPlanMoveStrictTouchesOnlyNeighbours(t *testing.T) {
	updates, err := planMove([]categorySlot{{ID: 1, Order: 1}, {ID: 2, Order: 4}, {ID: 3, Order: 9}}, 2, MoveDown)
	require.NoError(t, err)
	assert.ElementsMatch(t, []categorySlot{{ID: 2, Order: 9}, {ID: 3, Order: 4}}, updates)
}
