package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// RuntimeConfig 运行时配置
// 功能：存储编译运行时的配置信息，包含解析后的集合类参数
// 说明：将YAML配置中的逗号分隔列表转换为集合，编译开始前完成全部校验
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 编译控制配置

	MinorIndex   map[int]struct{}    // 降级为次绿灯的link index
	MajorGroups  map[string]struct{} // 强制主绿灯的信号组ID或link index（十进制字符串）
	IgnorePhases map[int]struct{}    // 忽略的相位编号
	IgnoreNodes  map[int]struct{}    // 忽略的子节点编号
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，解析列表类参数
// 参数：config-原始配置对象
// 返回：运行时配置指针；列表无法解析时返回ErrInvalidConfig
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{
		All:         config,
		C:           config.Control,
		MajorGroups: make(map[string]struct{}),
	}
	var err error
	if rc.MinorIndex, err = parseIntSet("minor_index", config.Control.MinorIndex); err != nil {
		return nil, err
	}
	if rc.IgnorePhases, err = parseIntSet("ignore_phases", config.Control.IgnorePhases); err != nil {
		return nil, err
	}
	if rc.IgnoreNodes, err = parseIntSet("ignore_nodes", config.Control.IgnoreNodes); err != nil {
		return nil, err
	}
	for _, s := range splitList(config.Control.MajorIndex) {
		rc.MajorGroups[s] = struct{}{}
	}
	if config.Control.UsePrograms {
		if config.Output.Format == "aglosa" {
			return nil, fmt.Errorf("%w: aglosa output requires phase-list mode (use_programs=false)", ErrInvalidConfig)
		}
		if config.Input.File == "" && config.Input.Programs == nil {
			return nil, fmt.Errorf("%w: input.programs collection is required with use_programs", ErrInvalidConfig)
		}
	}
	return rc, nil
}

// Traced 判断是否需要为给定的过渡/信号组/link index输出跟踪信息
// 参数：transition-过渡ID（""表示不限定），group-信号组ID（""表示不限定），index-link index（<0表示不限定）
func (rc *RuntimeConfig) Traced(transition, group string, index int) bool {
	t := rc.C.Trace
	if t.Index == nil && t.Group == "" && t.Transition == "" {
		return false
	}
	return (t.Index == nil || index < 0 || *t.Index == index) &&
		(t.Transition == "" || transition == "" || strings.Contains(transition, t.Transition)) &&
		(t.Group == "" || group == "" || t.Group == group)
}

func splitList(s string) []string {
	res := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

func parseIntSet(name, s string) (map[int]struct{}, error) {
	set := make(map[int]struct{})
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: %s must be a comma-separated list of non-negative integers, got %q", ErrInvalidConfig, name, s)
		}
		set[v] = struct{}{}
	}
	return set, nil
}
