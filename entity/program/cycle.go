// 相位程序装配
// 包含按相位编号划分周期、相位列表模式与连续信号程序模式两种装配方式
package program

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
)

var reNumber = regexp.MustCompile(`\d+`)

// Cycle 一个周期（子节点）内的相位
type Cycle struct {
	Phases []string       // 相位ID（按ID排序）
	Major  map[string]int // 相位ID -> 数字编号（全部带编号的相位）
	// NodeIndex 子节点编号：第一个相位编号大于10时为其十位数，否则为0
	NodeIndex int
	NodeID    string // 子节点编号的字符串形式，没有子节点时为空
}

// Tag 从相位ID中提取第一段连续数字作为编号
func Tag(phaseID string) (int, bool) {
	s := reNumber.FindString(phaseID)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BuildCycles 按相位编号划分周期
// 功能：相位ID排序后依次加入当前周期，编号个位为1的相位开始新的周期
// 参数：phaseIDs-全部相位ID，ignorePhases-需要忽略的相位编号
// 返回：非空的周期列表；没有数字编号的相位作为诊断信息返回
func BuildCycles(phaseIDs []string, ignorePhases map[int]struct{}) ([]Cycle, []entity.Diagnostic) {
	ids := append([]string(nil), phaseIDs...)
	sort.Strings(ids)
	major := make(map[string]int, len(ids))
	diags := make([]entity.Diagnostic, 0)
	tagged := make([]string, 0, len(ids))
	for _, id := range ids {
		tag, ok := Tag(id)
		if !ok {
			diags = append(diags, entity.Diagnostic{
				Kind:   entity.DiagUntaggedPhase,
				Record: id,
				Reason: "phase id contains no number",
			})
			continue
		}
		major[id] = tag
		tagged = append(tagged, id)
	}

	groups := make([][]string, 0)
	cur := make([]string, 0)
	for _, id := range tagged {
		tag := major[id]
		if _, ok := ignorePhases[tag]; ok {
			continue
		}
		if tag%10 == 1 && len(cur) > 0 {
			groups = append(groups, cur)
			cur = make([]string, 0)
		}
		cur = append(cur, id)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}

	cycles := make([]Cycle, 0, len(groups))
	for _, phases := range groups {
		c := Cycle{Phases: phases, Major: major}
		if first := major[phases[0]]; first > 10 {
			c.NodeIndex = first / 10
			c.NodeID = strconv.Itoa(c.NodeIndex)
		}
		cycles = append(cycles, c)
	}
	return cycles, diags
}

func (c Cycle) String() string {
	return fmt.Sprintf("NodeID='%s' Cycle=%v", c.NodeID, c.Phases)
}
