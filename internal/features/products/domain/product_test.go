package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComposite(t *testing.T) {
	enabled := func(s SyncStatus) SyncState { return SyncState{Enabled: true, Status: s} }
	disabled := SyncState{}

	tests := []struct {
		name     string
		parent   SyncState
		children []SyncState
		want     CompositeStatus
	}{
		{"disabled parent", disabled, []SyncState{enabled(SyncStatusSynced)}, CompositeDisabled},
		{"no children", enabled(SyncStatusSynced), nil, CompositeSynced},
		{"pending child", enabled(SyncStatusSynced), []SyncState{enabled(SyncStatusSynced), enabled(SyncStatusPending)}, CompositePending},
		{"disagreeing children", enabled(SyncStatusSynced), []SyncState{enabled(SyncStatusSynced), enabled(SyncStatusNotSynced)}, CompositePartial},
		{"agreeing children", enabled(SyncStatusNotSynced), []SyncState{enabled(SyncStatusSynced), enabled(SyncStatusSynced)}, CompositeNotSynced},
		{"disabled children ignored", enabled(SyncStatusSynced), []SyncState{disabled, {Enabled: false, Status: SyncStatusPending}}, CompositeSynced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Composite(tt.parent, tt.children))
		})
	}
}

func TestDimensions_Complete(t *testing.T) {
	ten := decimal.NewNullDecimal(decimal.NewFromInt(10))
	d := Dimensions{Weight: ten, Length: ten, Width: ten}
	assert.False(t, d.Complete())

	d.Height = ten
	assert.True(t, d.Complete())
}

func TestSyncState_IsSynced(t *testing.T) {
	assert.True(t, SyncState{Enabled: true, Status: SyncStatusSynced}.IsSynced())
	assert.False(t, SyncState{Enabled: false, Status: SyncStatusSynced}.IsSynced())
	assert.False(t, SyncState{Enabled: true, Status: SyncStatusPending}.IsSynced())
}
