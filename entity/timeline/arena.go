// 逐tick灯色时间线
// 包含未归约的复合灯色存储（Arena）、归约后的时间线（Timeline）与游程压缩（Run）
package timeline

// Layout 复合灯色的槽位布局
// 说明：每个link index的槽位数固定（该index上信号组数，至少为1），创建后只读
type Layout struct {
	slots   []int // link index -> 槽位数
	offsets []int // link index -> 单个tick内的起始偏移
	width   int   // 单个tick的总槽位数
}

// NewLayout 根据每个link index的槽位数创建布局
func NewLayout(slots []int) Layout {
	l := Layout{
		slots:   make([]int, len(slots)),
		offsets: make([]int, len(slots)),
	}
	for i, n := range slots {
		if n < 1 {
			log.Panicf("timeline: index %d has %d slots", i, n)
		}
		l.slots[i] = n
		l.offsets[i] = l.width
		l.width += n
	}
	return l
}

// Indices link index数量
func (l Layout) Indices() int { return len(l.slots) }

// Slots link index的槽位数
func (l Layout) Slots(i int) int { return l.slots[i] }

// Width 单个tick的总槽位数
func (l Layout) Width() int { return l.width }

// Arena 按(tick, index, slot)寻址的复合灯色存储
// 功能：以一维字节数组保存全部tick的复合灯色，避免嵌套切片之间的别名
// 说明：Arena只由创建它的流程修改，需要传出时使用Clone
type Arena struct {
	layout Layout
	ticks  int
	cells  []byte
}

// NewArena 创建ticks个tick的存储，全部槽位初始化为fill
func NewArena(layout Layout, ticks int, fill byte) *Arena {
	a := &Arena{
		layout: layout,
		ticks:  ticks,
		cells:  make([]byte, layout.width*ticks),
	}
	for k := range a.cells {
		a.cells[k] = fill
	}
	return a
}

// Layout 槽位布局
func (a *Arena) Layout() Layout { return a.layout }

// Ticks tick数
func (a *Arena) Ticks() int { return a.ticks }

func (a *Arena) pos(t, i, s int) int {
	if s < 0 || s >= a.layout.slots[i] {
		log.Panicf("timeline: slot %d out of range for index %d", s, i)
	}
	return t*a.layout.width + a.layout.offsets[i] + s
}

// Get 读取(t, i, s)处的字母
func (a *Arena) Get(t, i, s int) byte {
	return a.cells[a.pos(t, i, s)]
}

// Set 写入(t, i, s)处的字母
func (a *Arena) Set(t, i, s int, v byte) {
	a.cells[a.pos(t, i, s)] = v
}

// Fill 将[from, Ticks())内(i, s)处的字母全部写为v
func (a *Arena) Fill(from, i, s int, v byte) {
	for t := max(0, from); t < a.ticks; t++ {
		a.Set(t, i, s, v)
	}
}

// Complex 第t个tick第i个link index的复合灯色（各槽位字母按顺序拼接）
func (a *Arena) Complex(t, i int) string {
	start := t*a.layout.width + a.layout.offsets[i]
	return string(a.cells[start : start+a.layout.slots[i]])
}

// ComplexTick 第t个tick的全部复合灯色
func (a *Arena) ComplexTick(t int) []string {
	res := make([]string, a.layout.Indices())
	for i := range res {
		res[i] = a.Complex(t, i)
	}
	return res
}

// Clone 深拷贝
func (a *Arena) Clone() *Arena {
	b := &Arena{layout: a.layout, ticks: a.ticks, cells: make([]byte, len(a.cells))}
	copy(b.cells, a.cells)
	return b
}

// Replicate 以a的第0个tick为种子，生成ticks个tick的新存储
func (a *Arena) Replicate(ticks int) *Arena {
	b := &Arena{layout: a.layout, ticks: ticks, cells: make([]byte, a.layout.width*ticks)}
	for t := 0; t < ticks; t++ {
		copy(b.cells[t*a.layout.width:(t+1)*a.layout.width], a.cells[:a.layout.width])
	}
	return b
}
