// 编译结果的文本输出
// 包含SUMO additional文件（tlLogic）与AGLOSA配置（PHASE_PROPERTIES）两种格式
package output

import (
	"fmt"
	"io"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity/program"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/signalgroup"
)

// TLS 一个信号灯（周期/子节点）的相位程序
type TLS struct {
	ID     string // 信号灯ID（含子节点后缀）
	NodeID string // 子节点编号，没有子节点时为空
	Index  *signalgroup.Index
	Steps  []program.Step
}

// errWriter 记录第一个写入错误，之后的写入全部跳过
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
