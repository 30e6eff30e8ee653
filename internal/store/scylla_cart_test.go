package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"verideal_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCartRows applies the same conditions Scylla evaluates. beforeWrite runs
// ahead of each conditional write to stand in for another writer.
type memCartRows struct {
	mu          sync.Mutex
	lines       map[int64]models.CartLine
	casCalls    int
	beforeWrite func(m *memCartRows)
}

func newMemCartRows() *memCartRows {
	return &memCartRows{lines: map[int64]models.CartLine{}}
}

func (m *memCartRows) interfere() {
	m.casCalls++
	if m.beforeWrite != nil {
		m.beforeWrite(m)
	}
}

func (m *memCartRows) getLine(_ context.Context, _ string, productID int64) (models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[productID]
	if !ok {
		return models.CartLine{}, models.ErrNotFound
	}
	return line, nil
}

func (m *memCartRows) insertIfAbsent(_ context.Context, _ string, line models.CartLine) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interfere()
	if _, ok := m.lines[line.ProductID]; ok {
		return false, nil
	}
	m.lines[line.ProductID] = line
	return true, nil
}

func (m *memCartRows) updateIfQuantity(_ context.Context, _ string, line models.CartLine, expected int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interfere()
	cur, ok := m.lines[line.ProductID]
	if !ok || cur.Quantity != expected {
		return false, nil
	}
	m.lines[line.ProductID] = line
	return true, nil
}

func (m *memCartRows) overwriteIfExists(_ context.Context, _ string, line models.CartLine) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interfere()
	cur, ok := m.lines[line.ProductID]
	if !ok {
		return false, nil
	}
	line.CreatedAt = cur.CreatedAt
	m.lines[line.ProductID] = line
	return true, nil
}

func (m *memCartRows) deleteIfExists(_ context.Context, _ string, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, productID)
	return nil
}

var cartClock = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

func backpack(qty int) models.CartLine {
	return models.CartLine{ProductID: 1, Name: "Backpack", Price: decimal.RequireFromString("109.95"), Quantity: qty}
}

func TestIncrementLine_InsertsThenAdds(t *testing.T) {
	rows := newMemCartRows()
	ctx := context.Background()

	first, err := incrementLine(ctx, rows, "u1", backpack(2), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, cartClock(), first.CreatedAt)

	second, err := incrementLine(ctx, rows, "u1", backpack(3), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 5, rows.lines[1].Quantity)
}

func TestIncrementLine_RetriesWhenQuantityMoved(t *testing.T) {
	rows := newMemCartRows()
	rows.lines[1] = backpack(1)
	bumped := false
	rows.beforeWrite = func(m *memCartRows) {
		if !bumped {
			bumped = true
			line := m.lines[1]
			line.Quantity += 4
			m.lines[1] = line
		}
	}

	got, err := incrementLine(context.Background(), rows, "u1", backpack(2), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity, "both increments survive")
	assert.Equal(t, 2, rows.casCalls)
}

func TestIncrementLine_RowCreatedConcurrently(t *testing.T) {
	rows := newMemCartRows()
	rows.beforeWrite = func(m *memCartRows) {
		if _, ok := m.lines[1]; !ok {
			m.lines[1] = backpack(1)
		}
	}

	got, err := incrementLine(context.Background(), rows, "u1", backpack(2), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestIncrementLine_GivesUpUnderContention(t *testing.T) {
	rows := newMemCartRows()
	rows.lines[1] = backpack(1)
	rows.beforeWrite = func(m *memCartRows) {
		line := m.lines[1]
		line.Quantity++
		m.lines[1] = line
	}

	_, err := incrementLine(context.Background(), rows, "u1", backpack(1), cartClock)
	assert.ErrorIs(t, err, models.ErrWriteConflict)
	assert.Equal(t, maxCASAttempts, rows.casCalls)
}

func TestUpsertLine_OverwritesKeepingCreatedAt(t *testing.T) {
	rows := newMemCartRows()
	created := cartClock().Add(-time.Hour)
	existing := backpack(4)
	existing.CreatedAt = created
	rows.lines[1] = existing

	_, err := upsertLine(context.Background(), rows, "u1", backpack(2), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 2, rows.lines[1].Quantity)
	assert.Equal(t, created, rows.lines[1].CreatedAt)
	assert.Equal(t, cartClock(), rows.lines[1].UpdatedAt)
}

func TestUpsertLine_InsertsWhenRowVanished(t *testing.T) {
	rows := newMemCartRows()

	got, err := upsertLine(context.Background(), rows, "u1", backpack(2), cartClock)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, cartClock(), got.CreatedAt)
	assert.Equal(t, 2, rows.casCalls, "update IF EXISTS, then INSERT IF NOT EXISTS")
}

func TestClearLines(t *testing.T) {
	rows := newMemCartRows()
	rows.lines[1] = backpack(1)
	rows.lines[2] = models.CartLine{ProductID: 2, Quantity: 1}

	err := clearLines(context.Background(), rows, "u1", []models.CartLine{{ProductID: 1}, {ProductID: 2}, {ProductID: 3}})
	require.NoError(t, err)
	assert.Empty(t, rows.lines)
}
