package timeline

import "strings"

// State 归约后的灯色向量，每个link index一个字母（升序）
type State string

// At 第i个link index的字母
func (s State) At(i int) byte { return s[i] }

// With 返回第i个字母替换为l后的新向量
func (s State) With(i int, l byte) State {
	if s[i] == l {
		return s
	}
	b := []byte(s)
	b[i] = l
	return State(b)
}

// Timeline 逐tick的归约灯色序列
type Timeline []State

// Clone 浅拷贝（State本身不可变）
func (tl Timeline) Clone() Timeline {
	res := make(Timeline, len(tl))
	copy(res, tl)
	return res
}

// Column 第i个link index在各tick的字母
func (tl Timeline) Column(i int) string {
	var sb strings.Builder
	sb.Grow(len(tl))
	for _, s := range tl {
		sb.WriteByte(s.At(i))
	}
	return sb.String()
}
