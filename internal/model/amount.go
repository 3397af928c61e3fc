package model

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseAmount 解析十进制字符串形式的原始代币数量
// 拒绝空值、负数、非整数
func ParseAmount(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("数量不能为空")
	}
	v, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("无效的数量: %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("数量不能为负: %q", s)
	}
	return v, nil
}

// AmountOrZero 解析数量字段，空串和非法值按 0 处理
// 仅用于读取数据库中带 default:0 的聚合字段
func AmountOrZero(s string) *big.Int {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}
