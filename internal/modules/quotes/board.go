package quotes

import (
	"sort"

	"maquidash/internal/domain"
)

// Board is the kanban view of the pipeline: one column per lifecycle state,
// rebuilt from every store snapshot and mutated optimistically on drags.
type Board struct {
	Columns map[domain.QuoteStatus][]domain.Quote
}

// BuildBoard buckets quotes into their state columns, newest first.
func BuildBoard(all []domain.Quote) *Board {
	b := &Board{Columns: make(map[domain.QuoteStatus][]domain.Quote, len(domain.QuoteStatuses))}
	for _, status := range domain.QuoteStatuses {
		b.Columns[status] = []domain.Quote{}
	}
	for _, q := range all {
		if !q.Status.Valid() {
			continue
		}
		b.Columns[q.Status] = append(b.Columns[q.Status], q)
	}
	for status := range b.Columns {
		col := b.Columns[status]
		sort.SliceStable(col, func(i, j int) bool {
			return col[i].CreatedAt.SortKey() > col[j].CreatedAt.SortKey()
		})
	}
	return b
}

// clone makes a deep-enough copy for handing snapshots outside the lock.
func (b *Board) clone() *Board {
	out := &Board{Columns: make(map[domain.QuoteStatus][]domain.Quote, len(b.Columns))}
	for status, col := range b.Columns {
		cp := make([]domain.Quote, len(col))
		copy(cp, col)
		out.Columns[status] = cp
	}
	return out
}

func (b *Board) indexOf(status domain.QuoteStatus, id string) int {
	for i, q := range b.Columns[status] {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// MoveCommand is an optimistic board mutation with its exact inverse.
// Apply runs before the persisted write; Rollback must be invoked when
// that write fails, restoring the pre-move board.
type MoveCommand struct {
	board     *Board
	quote     domain.Quote
	from, to  domain.QuoteStatus
	fromIndex int
	toIndex   int
}

// move prepares the command for an item drag. Returns nil when the move is
// a no-op (same column, same position).
func (b *Board) move(id string, from, to domain.QuoteStatus, toIndex int) (*MoveCommand, error) {
	if !from.Valid() || !to.Valid() {
		return nil, ErrInvalidStatus
	}
	fromIndex := b.indexOf(from, id)
	if fromIndex < 0 {
		return nil, ErrNotFound
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if max := len(b.Columns[to]); from != to && toIndex > max {
		toIndex = max
	} else if from == to && toIndex >= max {
		toIndex = max - 1
	}
	if from == to && toIndex == fromIndex {
		return nil, nil
	}
	return &MoveCommand{
		board:     b,
		quote:     b.Columns[from][fromIndex],
		from:      from,
		to:        to,
		fromIndex: fromIndex,
		toIndex:   toIndex,
	}, nil
}

func (c *MoveCommand) Apply() {
	src := c.board.Columns[c.from]
	c.board.Columns[c.from] = append(src[:c.fromIndex:c.fromIndex], src[c.fromIndex+1:]...)

	moved := c.quote
	moved.Status = c.to
	dst := c.board.Columns[c.to]
	dst = append(dst, domain.Quote{})
	copy(dst[c.toIndex+1:], dst[c.toIndex:])
	dst[c.toIndex] = moved
	c.board.Columns[c.to] = dst
}

func (c *MoveCommand) Rollback() {
	dst := c.board.Columns[c.to]
	idx := c.board.indexOf(c.to, c.quote.ID)
	if idx >= 0 {
		c.board.Columns[c.to] = append(dst[:idx:idx], dst[idx+1:]...)
	}

	src := c.board.Columns[c.from]
	at := c.fromIndex
	if at > len(src) {
		at = len(src)
	}
	src = append(src, domain.Quote{})
	copy(src[at+1:], src[at:])
	src[at] = c.quote
	c.board.Columns[c.from] = src
}

// StateChanged reports whether the move crosses columns and therefore needs
// a persisted status write.
func (c *MoveCommand) StateChanged() bool { return c.from != c.to }
