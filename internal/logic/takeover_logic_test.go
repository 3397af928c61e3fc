package logic

import (
	"testing"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTakeoverDerivesMetricsOnce(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)

	got := reload(t, db, takeover.Id)
	assert.Equal(t, "250000", got.CalculatedMinAmount)
	assert.Equal(t, "560000", got.MaxSafeContribution)
	assert.Equal(t, "800000", got.RewardPoolTokens)
	assert.Equal(t, "200000", got.LiquidityPoolTokens)
	assert.Equal(t, "0", got.TotalContributed)
	assert.False(t, got.IsFinalized)
	assert.Empty(t, got.V2Mint)
}

func TestCreateTakeoverRejectsInvalidParameters(t *testing.T) {
	db := newTestDB(t)
	logic := NewTakeoverLogic(db)
	now := time.Now().Unix()

	base := model.TakeoverModel{
		Address:               uniq("TakeoverAddr"),
		Authority:             uniq("Authority"),
		V1Mint:                uniq("V1Mint"),
		RawSupply:             "1000000",
		Decimals:              0,
		TargetParticipationBp: 2500,
		RewardRateBp:          140,
		StartTime:             now,
		EndTime:               now + 3600,
	}

	cases := []struct {
		name   string
		mutate func(*model.TakeoverModel)
	}{
		{"missing address", func(m *model.TakeoverModel) { m.Address = "" }},
		{"missing authority", func(m *model.TakeoverModel) { m.Authority = "" }},
		{"missing v1 mint", func(m *model.TakeoverModel) { m.V1Mint = "" }},
		{"start after end", func(m *model.TakeoverModel) { m.StartTime = m.EndTime + 1 }},
		{"reward rate out of range", func(m *model.TakeoverModel) { m.RewardRateBp = 250 }},
		{"participation out of range", func(m *model.TakeoverModel) { m.TargetParticipationBp = 0 }},
		{"bad supply", func(m *model.TakeoverModel) { m.RawSupply = "abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			takeover := base
			takeover.Address = uniq("TakeoverAddr")
			tc.mutate(&takeover)
			err := logic.CreateTakeover(&takeover)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}

	// 非法参数不得留下任何持久化痕迹
	var count int64
	require.NoError(t, db.Model(&model.TakeoverModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetTakeoverNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewTakeoverLogic(db).GetTakeover(12345)
	assert.ErrorIs(t, err, ErrTakeoverNotFound)
}

func TestGetTakeoverByAddress(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)

	got, err := NewTakeoverLogic(db).GetTakeoverByAddress(takeover.Address)
	require.NoError(t, err)
	assert.Equal(t, takeover.Id, got.Id)
}

func TestGetEligibleTakeovers(t *testing.T) {
	db := newTestDB(t)
	logic := NewTakeoverLogic(db)

	goalMet := newTestTakeover(t, db)
	contribute(t, db, goalMet.Id, uniq("Contributor"), "250000")

	expired := newTestTakeover(t, db)
	contribute(t, db, expired.Id, uniq("Contributor"), "1000")
	expire(t, db, expired.Id)

	running := newTestTakeover(t, db)
	contribute(t, db, running.Id, uniq("Contributor"), "1000")

	eligible, err := logic.GetEligibleTakeovers(time.Now())
	require.NoError(t, err)

	ids := make([]int64, 0, len(eligible))
	for _, takeover := range eligible {
		ids = append(ids, takeover.Id)
	}
	assert.Contains(t, ids, goalMet.Id)
	assert.Contains(t, ids, expired.Id)
	assert.NotContains(t, ids, running.Id)
}

func TestGetTakeoverStats(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contributor := uniq("Contributor")
	contribute(t, db, takeover.Id, contributor, "100000")
	contribute(t, db, takeover.Id, contributor, "25000")

	stats, err := NewTakeoverLogic(db).GetTakeoverStats(takeover.Id)
	require.NoError(t, err)

	assert.Equal(t, "125000", stats["total_contributed"])
	assert.Equal(t, int64(2), stats["contributor_count"])
	assert.Equal(t, int64(1), stats["unique_contributors"])
	assert.InDelta(t, 50.0, stats["completion_percentage"], 0.001)
}
