package clock

import "fmt"

// Clock 周期时钟
// 功能：以tick为单位推进时间，提供周期内时刻的取模换算，用于信号程序回放
// 说明：CycleTime为0表示不循环
type Clock struct {
	DT        int // 每步时长（tick）
	CycleTime int // 周期时长（tick）

	T            int // 当前时刻（tick）
	InternalStep int // 当前步数
}

// New 创建时钟
// 参数：cycleTime-周期时长（tick），0表示不循环
func New(cycleTime int) *Clock {
	c := &Clock{
		DT:        1,
		CycleTime: cycleTime,
	}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.InternalStep = 0
	c.T = 0
}

// Step 推进一步
func (c *Clock) Step() {
	c.InternalStep++
	c.T = c.InternalStep * c.DT
}

// InCycle 当前时刻在周期内的位置
func (c *Clock) InCycle() int {
	return Wrap(c.T, c.CycleTime)
}

// Wrap 将时刻t换算到[0, cycleTime)内
// 说明：负数时刻从周期末尾倒数，cycleTime<=0时原样返回
func Wrap(t, cycleTime int) int {
	if cycleTime <= 0 {
		return t
	}
	return ((t % cycleTime) + cycleTime) % cycleTime
}

// String 获取时钟的字符串表示
// 返回：格式化的时间字符串（HH:MM:SS），tick按秒计
func (c *Clock) String() string {
	return Format(c.T)
}

// Format 将tick数格式化为HH:MM:SS
func Format(t int) string {
	h := t / 3600
	m := t % 3600 / 60
	s := t % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
