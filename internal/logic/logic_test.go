package logic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foolmeonetime/beanpump-sub002/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TakeoverModel{}, &model.ContributionModel{}))
	return db
}

// fakeMint 可注入失败的铸币客户端
type fakeMint struct {
	calls    atomic.Int64
	failWith error
}

func (f *fakeMint) CreateMint(_ context.Context, authority string, decimals uint8) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	n := f.calls.Add(1)
	return fmt.Sprintf("V2Mint%d", n), nil
}

var errRpcDown = errors.New("rpc unavailable")

// seq 测试内生成唯一地址/签名
var seq atomic.Int64

func uniq(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, seq.Add(1))
}

// newTestTakeover 创建一个进行中的活动
// raw=1000000, decimals=0, 25% 参与目标, 1.4x 奖励率：
// goal=250000, rewardPool=800000, safePool=784000, maxSafe=560000
func newTestTakeover(t *testing.T, db *gorm.DB) *model.TakeoverModel {
	t.Helper()
	now := time.Now().Unix()
	takeover := &model.TakeoverModel{
		Address:               uniq("TakeoverAddr"),
		Authority:             uniq("Authority"),
		V1Mint:                uniq("V1Mint"),
		RawSupply:             "1000000",
		Decimals:              0,
		TargetParticipationBp: 2500,
		RewardRateBp:          140,
		StartTime:             now - 3600,
		EndTime:               now + 3600,
	}
	require.NoError(t, NewTakeoverLogic(db).CreateTakeover(takeover))
	return takeover
}

// contribute 记录一笔贡献并返回记录
func contribute(t *testing.T, db *gorm.DB, takeoverId int64, contributor, amount string) *model.ContributionModel {
	t.Helper()
	c := &model.ContributionModel{
		TakeoverId:  takeoverId,
		Contributor: contributor,
		Amount:      amount,
		TxSignature: uniq("Sig"),
	}
	require.NoError(t, NewContributeLogic(db).CreateContribution(c))
	return c
}

// expire 把活动的结束时间拨到过去
func expire(t *testing.T, db *gorm.DB, takeoverId int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.TakeoverModel{}).
		Where("id = ?", takeoverId).
		Update("end_time", time.Now().Unix()-60).Error)
}

func reload(t *testing.T, db *gorm.DB, takeoverId int64) *model.TakeoverModel {
	t.Helper()
	var takeover model.TakeoverModel
	require.NoError(t, db.First(&takeover, takeoverId).Error)
	return &takeover
}
