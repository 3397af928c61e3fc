package logic

import (
	"context"
	"testing"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleClaimRefundOnFailure(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contribution := contribute(t, db, takeover.Id, uniq("Contributor"), "12345")
	expire(t, db, takeover.Id)
	_, err := NewFinalizeLogic(db, &fakeMint{}).Finalize(context.Background(), takeover.Id)
	require.NoError(t, err)

	settlement, err := NewClaimLogic(db).SettleClaim(contribution.Id, uniq("ClaimSig"))
	require.NoError(t, err)

	// 活动失败：全额退还原始贡献
	assert.Equal(t, model.ClaimTypeRefund, settlement.ClaimType)
	assert.Equal(t, "12345", settlement.Amount)

	var got model.ContributionModel
	require.NoError(t, db.First(&got, contribution.Id).Error)
	assert.True(t, got.IsClaimed)
	assert.Equal(t, "12345", got.ClaimAmount)
	assert.Equal(t, model.ClaimTypeRefund, got.ClaimType)
	require.NotNil(t, got.ClaimedAt)
}

func TestSettleClaimRewardOnSuccess(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contribution := contribute(t, db, takeover.Id, uniq("Contributor"), "150000")
	contribute(t, db, takeover.Id, uniq("Contributor"), "100000")
	_, err := NewFinalizeLogic(db, &fakeMint{}).Finalize(context.Background(), takeover.Id)
	require.NoError(t, err)

	settlement, err := NewClaimLogic(db).SettleClaim(contribution.Id, uniq("ClaimSig"))
	require.NoError(t, err)

	// 150000 * 1.4x = 210000，低于安全奖励池 784000，按期望值兑付
	assert.Equal(t, model.ClaimTypeReward, settlement.ClaimType)
	assert.Equal(t, "210000", settlement.Amount)
}

func TestSettleClaimRewardFallback(t *testing.T) {
	db := newTestDB(t)

	// 直接落库一个奖励池极小的已终结活动，迫使结算走缩减分支
	now := time.Now()
	takeover := &model.TakeoverModel{
		Address:               uniq("TakeoverAddr"),
		Authority:             uniq("Authority"),
		V1Mint:                uniq("V1Mint"),
		RawSupply:             "1000",
		Decimals:              0,
		TargetParticipationBp: 10000,
		RewardRateBp:          140,
		RewardPoolTokens:      "800",
		CalculatedMinAmount:   "560",
		MaxSafeContribution:   "560",
		TotalContributed:      "10000",
		StartTime:             now.Unix() - 7200,
		EndTime:               now.Unix() - 3600,
		IsFinalized:           true,
		IsSuccessful:          true,
		V2Mint:                uniq("V2Mint"),
		FinalizedAt:           &now,
	}
	require.NoError(t, db.Create(takeover).Error)

	contribution := &model.ContributionModel{
		TakeoverId:  takeover.Id,
		Contributor: uniq("Contributor"),
		Amount:      "10000",
		TxSignature: uniq("Sig"),
	}
	require.NoError(t, db.Create(contribution).Error)

	settlement, err := NewClaimLogic(db).SettleClaim(contribution.Id, uniq("ClaimSig"))
	require.NoError(t, err)

	// safe = 800*98% = 784，期望值 14000 超池，缩减为 784*10000/10001 = 783
	assert.Equal(t, model.ClaimTypeReward, settlement.ClaimType)
	assert.Equal(t, "783", settlement.Amount)
}

func TestSettleClaimRejectsDoubleClaim(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contribution := contribute(t, db, takeover.Id, uniq("Contributor"), "1000")
	expire(t, db, takeover.Id)
	_, err := NewFinalizeLogic(db, &fakeMint{}).Finalize(context.Background(), takeover.Id)
	require.NoError(t, err)

	claim := NewClaimLogic(db)
	first, err := claim.SettleClaim(contribution.Id, uniq("ClaimSig"))
	require.NoError(t, err)

	_, err = claim.SettleClaim(contribution.Id, uniq("ClaimSig"))
	assert.ErrorIs(t, err, ErrInvalidClaim)

	// 重复领取不改变首次结算结果，聚合只累计一次
	var got model.ContributionModel
	require.NoError(t, db.First(&got, contribution.Id).Error)
	assert.Equal(t, first.Amount, got.ClaimAmount)

	reloaded := reload(t, db, takeover.Id)
	assert.Equal(t, first.Amount, reloaded.TotalClaimed)
	assert.Equal(t, int64(1), reloaded.ClaimedCount)
}

func TestSettleClaimBeforeFinalize(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contribution := contribute(t, db, takeover.Id, uniq("Contributor"), "1000")

	_, err := NewClaimLogic(db).SettleClaim(contribution.Id, uniq("ClaimSig"))
	assert.ErrorIs(t, err, ErrInvalidClaim)

	// 拒绝不产生任何状态变更
	var got model.ContributionModel
	require.NoError(t, db.First(&got, contribution.Id).Error)
	assert.False(t, got.IsClaimed)
}

func TestSettleClaimUnknownContribution(t *testing.T) {
	db := newTestDB(t)
	_, err := NewClaimLogic(db).SettleClaim(424242, uniq("ClaimSig"))
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestSettleClaimAggregates(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	a := contribute(t, db, takeover.Id, uniq("Contributor"), "100000")
	b := contribute(t, db, takeover.Id, uniq("Contributor"), "200000")
	_, err := NewFinalizeLogic(db, &fakeMint{}).Finalize(context.Background(), takeover.Id)
	require.NoError(t, err)

	claim := NewClaimLogic(db)
	_, err = claim.SettleClaim(a.Id, uniq("ClaimSig"))
	require.NoError(t, err)
	_, err = claim.SettleClaim(b.Id, uniq("ClaimSig"))
	require.NoError(t, err)

	// 140000 + 280000
	got := reload(t, db, takeover.Id)
	assert.Equal(t, "420000", got.TotalClaimed)
	assert.Equal(t, int64(2), got.ClaimedCount)
}

func TestSettleClaimWithInjectedClock(t *testing.T) {
	db := newTestDB(t)
	takeover := newTestTakeover(t, db)
	contribution := contribute(t, db, takeover.Id, uniq("Contributor"), "1000")
	expire(t, db, takeover.Id)
	_, err := NewFinalizeLogic(db, &fakeMint{}).Finalize(context.Background(), takeover.Id)
	require.NoError(t, err)

	claim := NewClaimLogic(db)
	fixed := time.Unix(1700000000, 0)
	claim.SetNowFunc(func() time.Time { return fixed })

	settlement, err := claim.SettleClaim(contribution.Id, uniq("ClaimSig"))
	require.NoError(t, err)
	assert.Equal(t, fixed, settlement.ClaimedAt)
}
