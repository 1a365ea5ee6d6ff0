package signalstate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownColor       = errors.New("unknown signal color")
	ErrUnknownCombination = errors.New("unknown complex state combination")
)

// Letter 将OCIT灯色记号翻译为仿真器字母
// 返回：未知记号返回ErrUnknownColor
func Letter(token string) (byte, error) {
	if l, ok := colors[token]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, token)
}

// InterpretComplexState 将复合灯色归约为单个字母
// 功能：所有字母相同时直接返回该字母，否则查组合表，查不到则把原串本身作为结果
// 参数：state-同一link index上各信号组的字母序列（按优先级排列）
// 返回：单个字母；结果不是单个字母时返回ErrUnknownCombination，调用方必须将其视为致命错误
func InterpretComplexState(state string) (byte, error) {
	if len(state) == 0 {
		return 0, fmt.Errorf("%w: empty state", ErrUnknownCombination)
	}
	if strings.Count(state, state[:1]) == len(state) {
		return state[0], nil
	}
	if l, ok := combinations[state]; ok {
		return l, nil
	}
	if len(state) == 1 {
		return state[0], nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCombination, state)
}

// Override 归一化时的强制规则
type Override struct {
	Minor map[int]struct{}    // 主绿灯降级为次绿灯的link index
	Major map[string]struct{} // 亮绿灯时强制为主绿灯的信号组ID（或十进制link index）
}

// NormalizeIndex 归一化单个link index的复合灯色
// 说明：Major只在信号亮绿灯时生效，复合灯色中没有'G'/'g'时按正常规则归约（例如"rO"仍为'r'）
// 算法说明：
// 1. 该index上任一信号组（或index本身）在Major集合中，且复合灯色中包含绿灯，则强制为'G'
// 2. 否则按InterpretComplexState归约
// 3. index在Minor集合中且归约结果为'G'，降级为'g'
func NormalizeIndex(complex string, index int, groups []string, ov Override) (byte, error) {
	if len(ov.Major) > 0 && strings.ContainsAny(complex, "Gg") {
		if _, ok := ov.Major[strconv.Itoa(index)]; ok {
			return Green, nil
		}
		for _, g := range groups {
			if _, ok := ov.Major[g]; ok {
				return Green, nil
			}
		}
	}
	l, err := InterpretComplexState(complex)
	if err != nil {
		return 0, fmt.Errorf("index %d (groups=%v): %w", index, groups, err)
	}
	if _, ok := ov.Minor[index]; ok && l == Green {
		l = MinorGreen
	}
	return l, nil
}

// Normalize 将逐index的复合灯色归一化为状态串（每个link index一个字母）
// 说明：相位/过渡流程与信号程序流程共用该函数
// 参数：complex-逐index复合灯色，groups-index->信号组（按优先级排列），ov-强制规则
func Normalize(complex []string, groups [][]string, ov Override) (string, error) {
	var sb strings.Builder
	sb.Grow(len(complex))
	for i, c := range complex {
		var g []string
		if i < len(groups) {
			g = groups[i]
		}
		l, err := NormalizeIndex(c, i, g, ov)
		if err != nil {
			return "", err
		}
		sb.WriteByte(l)
	}
	return sb.String(), nil
}
