package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maquidash/internal/domain"
	"maquidash/internal/pkg/dates"
)

func quote(id string, status domain.QuoteStatus, created string) domain.Quote {
	return domain.Quote{
		ID:         id,
		Machinery:  "Excavadora",
		ClientName: "Cliente " + id,
		Status:     status,
		CreatedAt:  dates.Parse(created),
	}
}

func TestBuildBoardBucketsAndSorts(t *testing.T) {
	b := BuildBoard([]domain.Quote{
		quote("a", domain.QuoteNew, "2025-01-01"),
		quote("b", domain.QuoteNew, "2025-03-01"),
		quote("c", domain.QuoteContacted, "2025-02-01"),
		{ID: "junk", Status: "INVALIDO"},
	})

	require.Len(t, b.Columns, len(domain.QuoteStatuses))
	require.Len(t, b.Columns[domain.QuoteNew], 2)
	assert.Equal(t, "b", b.Columns[domain.QuoteNew][0].ID, "newest first")
	assert.Equal(t, "a", b.Columns[domain.QuoteNew][1].ID)
	assert.Len(t, b.Columns[domain.QuoteContacted], 1)

	// unknown states are dropped, empty columns still exist
	assert.Empty(t, b.Columns[domain.QuoteSold])
}

func TestMoveNoOpSamePosition(t *testing.T) {
	b := BuildBoard([]domain.Quote{quote("a", domain.QuoteNew, "2025-01-01")})

	cmd, err := b.move("a", domain.QuoteNew, domain.QuoteNew, 0)
	require.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestMoveAcrossColumns(t *testing.T) {
	b := BuildBoard([]domain.Quote{
		quote("a", domain.QuoteNew, "2025-01-01"),
		quote("b", domain.QuoteContacted, "2025-01-02"),
	})

	cmd, err := b.move("a", domain.QuoteNew, domain.QuoteContacted, 0)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.True(t, cmd.StateChanged())

	cmd.Apply()
	assert.Empty(t, b.Columns[domain.QuoteNew])
	require.Len(t, b.Columns[domain.QuoteContacted], 2)
	assert.Equal(t, "a", b.Columns[domain.QuoteContacted][0].ID)
	assert.Equal(t, domain.QuoteContacted, b.Columns[domain.QuoteContacted][0].Status)
}

func TestMoveRollbackRestoresBoard(t *testing.T) {
	b := BuildBoard([]domain.Quote{
		quote("a", domain.QuoteNew, "2025-01-03"),
		quote("b", domain.QuoteNew, "2025-01-02"),
		quote("c", domain.QuoteContacted, "2025-01-01"),
	})

	cmd, err := b.move("b", domain.QuoteNew, domain.QuoteContacted, 1)
	require.NoError(t, err)
	cmd.Apply()
	cmd.Rollback()

	require.Len(t, b.Columns[domain.QuoteNew], 2)
	assert.Equal(t, "a", b.Columns[domain.QuoteNew][0].ID)
	assert.Equal(t, "b", b.Columns[domain.QuoteNew][1].ID)
	assert.Equal(t, domain.QuoteNew, b.Columns[domain.QuoteNew][1].Status)
	require.Len(t, b.Columns[domain.QuoteContacted], 1)
	assert.Equal(t, "c", b.Columns[domain.QuoteContacted][0].ID)
}

func TestMoveReorderWithinColumn(t *testing.T) {
	b := BuildBoard([]domain.Quote{
		quote("a", domain.QuoteNew, "2025-01-03"),
		quote("b", domain.QuoteNew, "2025-01-02"),
		quote("c", domain.QuoteNew, "2025-01-01"),
	})

	cmd, err := b.move("c", domain.QuoteNew, domain.QuoteNew, 0)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.False(t, cmd.StateChanged(), "reorder needs no status write")

	cmd.Apply()
	assert.Equal(t, "c", b.Columns[domain.QuoteNew][0].ID)
}

func TestMoveUnknownQuote(t *testing.T) {
	b := BuildBoard(nil)

	_, err := b.move("ghost", domain.QuoteNew, domain.QuoteContacted, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveInvalidStatus(t *testing.T) {
	b := BuildBoard([]domain.Quote{quote("a", domain.QuoteNew, "2025-01-01")})

	_, err := b.move("a", "BOGUS", domain.QuoteContacted, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMoveClampsIndex(t *testing.T) {
	b := BuildBoard([]domain.Quote{
		quote("a", domain.QuoteNew, "2025-01-01"),
	})

	cmd, err := b.move("a", domain.QuoteNew, domain.QuoteContacted, 99)
	require.NoError(t, err)
	cmd.Apply()
	require.Len(t, b.Columns[domain.QuoteContacted], 1)
}
