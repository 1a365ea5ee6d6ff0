package task

import (
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalstate"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
)

// Context 编译任务上下文
// 功能：包含一个周期（子节点）或一组信号程序编译所需的配置与诊断信息，替代全局变量
// 说明：每个周期使用独立的上下文，可以并行编译
type Context struct {
	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 被跳过/修正的记录
	diagnostics *entity.Diagnostics
	// 灯色归一化规则
	override signalstate.Override
}

// NewContext 创建编译任务上下文
// 参数：rc-运行时配置
func NewContext(rc *config.RuntimeConfig) *Context {
	return &Context{
		runtimeConfig: rc,
		diagnostics:   entity.NewDiagnostics(),
		override: signalstate.Override{
			Minor: rc.MinorIndex,
			Major: rc.MajorGroups,
		},
	}
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Diagnostics() *entity.Diagnostics {
	return ctx.diagnostics
}

func (ctx *Context) Override() signalstate.Override {
	return ctx.override
}
