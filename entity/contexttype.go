package entity

import (
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

// ITaskContext 编译任务上下文的依赖倒置
// 说明：每个周期（子节点）或程序集拥有独立的上下文，诊断信息不跨上下文共享
type ITaskContext interface {
	RuntimeConfig() *config.RuntimeConfig
	Diagnostics() *Diagnostics
	// Override 灯色归一化的强制规则，相位/过渡与信号程序两条流程共用
	Override() signalstate.Override
}
