package pricing

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestPointsFor(t *testing.T) {
    assert.Equal(t, int64(0), PointsFor(0))
    assert.Equal(t, int64(0), PointsFor(99))
    assert.Equal(t, int64(150), PointsFor(15025))
    assert.Equal(t, int64(135), PointsFor(13523))
    assert.Equal(t, int64(0), PointsFor(-10))
}

func TestTierFor(t *testing.T) {
    assert.Equal(t, "Bronze Vibe", TierFor(0).Name)
    assert.Equal(t, "Bronze Vibe", TierFor(499).Name)
    assert.Equal(t, "Silver Spark", TierFor(500).Name)
    assert.Equal(t, "Gold Glow", TierFor(2999).Name)
    assert.Equal(t, "Platinum Pulse", TierFor(10000).Name)
}

func TestNextTier(t *testing.T) {
    next, needed, ok := NextTier(450)
    assert.True(t, ok)
    assert.Equal(t, "Silver Spark", next.Name)
    assert.Equal(t, int64(50), needed)

    _, _, ok = NextTier(3000)
    assert.False(t, ok)
}
