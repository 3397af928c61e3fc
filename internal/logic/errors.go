package logic

import (
	"errors"

	"github.com/foolmeonetime/beanpump-sub002/internal/supply"
)

// 错误分类，handler 层据此翻译为 HTTP 状态码
var (
	// ErrInvalidParameters 参数超出政策边界，在任何持久化之前被拒绝
	ErrInvalidParameters = supply.ErrInvalidParameters

	// ErrNotEligible 活动已终结或尚不满足终结条件，no-op 而非致命错误
	ErrNotEligible = errors.New("活动不满足终结条件")

	// ErrInvalidClaim 贡献记录不存在、不属于该活动、已被领取或活动尚未终结
	ErrInvalidClaim = errors.New("无效的领取请求")

	// ErrExternalDependency 铸币或存储事务失败，已回滚进行中的状态
	ErrExternalDependency = errors.New("外部依赖调用失败")

	// ErrTakeoverNotFound 活动不存在
	ErrTakeoverNotFound = errors.New("活动不存在")

	// ErrContributionCeiling 贡献会使累计金额超过安全上限
	ErrContributionCeiling = errors.New("贡献金额超过安全上限")

	// ErrTakeoverNotActive 活动不在进行中，无法接受贡献
	ErrTakeoverNotActive = errors.New("活动不在进行中，无法接受贡献")
)
