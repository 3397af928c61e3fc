package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 服务级指标，由 logic 层在事务提交后打点
var (
	// TakeoversFinalized 已终结的活动数，按结果区分
	TakeoversFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "takeover",
		Name:      "finalized_total",
		Help:      "Number of takeovers finalized, by outcome.",
	}, []string{"outcome"})

	// SweepErrors 清扫过程中单个活动的终结失败数
	SweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "takeover",
		Name:      "sweep_errors_total",
		Help:      "Number of per-takeover errors during finalize sweeps.",
	})

	// SweepRuns 清扫执行次数
	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "takeover",
		Name:      "sweep_runs_total",
		Help:      "Number of finalize sweeps executed.",
	})

	// ClaimsSettled 已结算的领取数，按类型区分
	ClaimsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "takeover",
		Name:      "claims_settled_total",
		Help:      "Number of contribution claims settled, by type.",
	}, []string{"type"})
)
