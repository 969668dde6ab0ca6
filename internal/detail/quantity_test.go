package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantityStartsAtOne(t *testing.T) {
	q := NewQuantity(150000, 5)
	assert.Equal(t, 1, q.Value())
	assert.True(t, q.AtMin())
	assert.False(t, q.AtMax())
}

func TestQuantityClampsAtBounds(t *testing.T) {
	q := NewQuantity(150000, 3)

	q.Decrement()
	assert.Equal(t, 1, q.Value(), "decrement below one is ignored")

	q.Increment()
	q.Increment()
	q.Increment()
	q.Increment()
	assert.Equal(t, 3, q.Value(), "increment past stock is ignored")
	assert.True(t, q.AtMax())
}

func TestQuantitySetClamps(t *testing.T) {
	q := NewQuantity(90000, 4)

	q.Set(3)
	assert.Equal(t, 3, q.Value())

	q.Set(0)
	assert.Equal(t, 1, q.Value())

	q.Set(10)
	assert.Equal(t, 4, q.Value())
}

func TestQuantityZeroStockBehavesAsOne(t *testing.T) {
	q := NewQuantity(90000, 0)
	assert.Equal(t, 1, q.Value())
	q.Increment()
	assert.Equal(t, 1, q.Value())
}

func TestTotalIsExactIntegerMath(t *testing.T) {
	q := NewQuantity(150000, 10)
	q.Set(3)
	assert.Equal(t, int64(450000), q.Total())

	q.Set(1)
	assert.Equal(t, int64(150000), q.Total())

	big := NewQuantity(12500000, 100)
	big.Set(100)
	assert.Equal(t, int64(1250000000), big.Total())
}
