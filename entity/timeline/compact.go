package timeline

// Run 恒定灯色的一段：持续Duration个tick
type Run[T any] struct {
	Duration int
	Value    T
}

// Compact 游程压缩：连续相等的元素合并为一段，时长相加
func Compact[T comparable](ticks []T) []Run[T] {
	return CompactFunc(ticks, func(a, b T) bool { return a == b })
}

// CompactFunc 使用自定义相等判断的游程压缩
// 说明：只合并相邻元素，保持原有顺序，Expand可完全还原
func CompactFunc[T any](ticks []T, eq func(a, b T) bool) []Run[T] {
	runs := make([]Run[T], 0)
	for _, v := range ticks {
		if n := len(runs); n > 0 && eq(runs[n-1].Value, v) {
			runs[n-1].Duration++
			continue
		}
		runs = append(runs, Run[T]{Duration: 1, Value: v})
	}
	return runs
}

// Singles 不压缩，每个tick单独成段（时长为1）
func Singles[T any](ticks []T) []Run[T] {
	runs := make([]Run[T], len(ticks))
	for t, v := range ticks {
		runs[t] = Run[T]{Duration: 1, Value: v}
	}
	return runs
}

// Expand 按时长重复展开
func Expand[T any](runs []Run[T]) []T {
	res := make([]T, 0)
	for _, r := range runs {
		for k := 0; k < r.Duration; k++ {
			res = append(res, r.Value)
		}
	}
	return res
}
