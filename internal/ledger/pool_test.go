package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

func TestResourcePool_Spend(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		amount      int
		wantErr     bool
		wantCurrent int
	}{
		{name: "spend within balance", current: 4, amount: 3, wantCurrent: 1},
		{name: "spend exact balance", current: 2, amount: 2, wantCurrent: 0},
		{name: "spend zero", current: 2, amount: 0, wantCurrent: 2},
		{name: "overspend fails without mutation", current: 2, amount: 3, wantErr: true, wantCurrent: 2},
		{name: "empty pool fails", current: 0, amount: 1, wantErr: true, wantCurrent: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &ResourcePool{Name: "sorcery_points", Current: tt.current, Maximum: 5}
			err := pool.Spend(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsInsufficientResource(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCurrent, pool.Current)
		})
	}
}

func TestResourcePool_SpendNegative(t *testing.T) {
	pool := &ResourcePool{Name: "rage_charges", Current: 2, Maximum: 3}
	err := pool.Spend(-1)
	require.Error(t, err)
	assert.Equal(t, 2, pool.Current)
}

func TestResourcePool_GrantClampsToMaximum(t *testing.T) {
	pool := &ResourcePool{Name: "sorcery_points", Current: 3, Maximum: 5}

	assert.Equal(t, 2, pool.Grant(4), "only the headroom is gained")
	assert.Equal(t, 5, pool.Current)

	assert.Equal(t, 0, pool.Grant(1), "a full pool gains nothing")
	assert.Equal(t, 5, pool.Current)

	assert.Equal(t, 0, pool.Grant(-2), "negative grants are ignored")
	assert.Equal(t, 5, pool.Current)
}

func TestResourcePool_SetMaximumClampsCurrent(t *testing.T) {
	pool := &ResourcePool{Name: "sorcery_points", Current: 10, Maximum: 10}

	pool.SetMaximum(4)
	assert.Equal(t, 4, pool.Maximum)
	assert.Equal(t, 4, pool.Current)

	pool.SetMaximum(8)
	assert.Equal(t, 4, pool.Current, "raising the maximum does not grant")

	pool.SetMaximum(-3)
	assert.Equal(t, 0, pool.Maximum)
	assert.Equal(t, 0, pool.Current)
}

func TestResourcePool_RecoversOn(t *testing.T) {
	short := &ResourcePool{Recovery: rulebook.RestShort}
	assert.True(t, short.recoversOn(rulebook.RestShort))
	assert.True(t, short.recoversOn(rulebook.RestLong))

	long := &ResourcePool{Recovery: rulebook.RestLong}
	assert.False(t, long.recoversOn(rulebook.RestShort))
	assert.True(t, long.recoversOn(rulebook.RestLong))

	never := &ResourcePool{Recovery: rulebook.RestNone}
	assert.False(t, never.recoversOn(rulebook.RestShort))
	assert.False(t, never.recoversOn(rulebook.RestLong))
}

func TestResourcePool_CheckInvariant(t *testing.T) {
	pool := &ResourcePool{Name: "sorcery_points", Current: 3, Maximum: 5}
	require.NoError(t, pool.checkInvariant())

	pool.Current = 7
	err := pool.checkInvariant()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvariantViolation, apperrors.GetCode(err))
}
