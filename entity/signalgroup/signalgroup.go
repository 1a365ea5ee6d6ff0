// 信号组与link index的映射模型
package signalgroup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/container"
)

const indexSeparator = ";"

// IsBlinker 判断信号组是否为闪光信号（不参与过渡灯色与复合灯色归约）
func IsBlinker(id string) bool {
	return strings.Contains(id, "BL") || strings.Contains(id, "ge") ||
		strings.Contains(id, "gn") || strings.Contains(id, "H")
}

// Priority 信号组在同一link index上的排列优先级
// 返回：闪光信号2，ID含R或L的方向信号0，其余1
func Priority(id string) int {
	if IsBlinker(id) {
		return 2
	}
	if strings.ContainsAny(id, "RL") {
		return 0
	}
	return 1
}

// Index 信号组索引
// 功能：维护信号组->link index、link index->信号组（按优先级排列）、过渡灯色时长与子节点归属
// 说明：构建完成后只读，可在多个周期间共享
type Index struct {
	order        []string         // 信号组ID（文档顺序）
	groupIndices map[string][]int // 信号组ID -> link index列表
	indexGroups  [][]string       // link index -> 信号组ID（按优先级，同优先级按文档顺序）
	// MaxIndex 出现过的最大link index，没有任何信号组时为-1
	MaxIndex int

	yellow         map[int]int    // link index -> 黄灯时长
	redYellow      map[int]int    // link index -> 红黄时长
	groupYellow    map[string]int // 信号组ID -> 黄灯时长
	groupRedYellow map[string]int // 信号组ID -> 红黄时长

	nodeOf       map[string]int   // 信号组ID -> 子节点
	partialNodes map[int][]string // 子节点 -> 信号组ID
}

// Build 根据信号组记录构建索引
// 功能：解析每个信号组第一条备注中的link index列表，读取黄灯/红黄时长，按优先级建立反向映射
// 参数：groups-信号组记录（文档顺序），defaultNode-未指定AbschaltTeilknoten时使用的子节点
// 返回：索引；无法解析的信号组作为诊断信息返回并被丢弃
func Build(groups []ocit.SignalGroup, defaultNode int) (*Index, []entity.Diagnostic) {
	ix := &Index{
		order:          make([]string, 0, len(groups)),
		groupIndices:   make(map[string][]int),
		MaxIndex:       -1,
		yellow:         make(map[int]int),
		redYellow:      make(map[int]int),
		groupYellow:    make(map[string]int),
		groupRedYellow: make(map[string]int),
		nodeOf:         make(map[string]int),
		partialNodes:   make(map[int][]string),
	}
	diags := make([]entity.Diagnostic, 0)
	for _, sg := range groups {
		indices, err := parseIndices(sg)
		if err != nil {
			diags = append(diags, entity.Diagnostic{
				Kind:   entity.DiagMalformedSignalGroup,
				Record: sg.ID,
				Reason: err.Error(),
			})
			continue
		}
		if _, ok := ix.groupIndices[sg.ID]; !ok {
			ix.order = append(ix.order, sg.ID)
		}
		ix.groupIndices[sg.ID] = indices
		ix.MaxIndex = lo.Max(append([]int{ix.MaxIndex}, indices...))
		if !IsBlinker(sg.ID) {
			mergeDuration(sg.Activation, sg.ID, indices, ix.redYellow, ix.groupRedYellow)
			mergeDuration(sg.Deactivation, sg.ID, indices, ix.yellow, ix.groupYellow)
		}
		node := defaultNode
		if sg.PartialNode != nil {
			node = *sg.PartialNode
		}
		ix.nodeOf[sg.ID] = node
		ix.partialNodes[node] = append(ix.partialNodes[node], sg.ID)
	}
	ix.buildIndexGroups()
	return ix, diags
}

func parseIndices(sg ocit.SignalGroup) ([]int, error) {
	if len(sg.Comments) == 0 || strings.TrimSpace(sg.Comments[0]) == "" {
		return nil, fmt.Errorf("missing link index comment")
	}
	parts := strings.Split(sg.Comments[0], indexSeparator)
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad link index %q in comment %q", p, sg.Comments[0])
		}
		if v < 0 {
			return nil, fmt.Errorf("negative link index %d in comment %q", v, sg.Comments[0])
		}
		indices = append(indices, v)
	}
	return indices, nil
}

// mergeDuration 取第一个过渡元素的时长，对该组的每个index与组ID本身取最大值
// 说明：方向信号与普通信号控制同一连接时，需要按组ID单独记录，以区分方向信号没有红黄
func mergeDuration(elements []ocit.ClearanceElement, id string, indices []int, byIndex map[int]int, byGroup map[string]int) {
	if len(elements) == 0 || elements[0].Duration == nil {
		return
	}
	d := *elements[0].Duration
	for _, i := range indices {
		byIndex[i] = max(byIndex[i], d)
	}
	byGroup[id] = max(byGroup[id], d)
}

func (ix *Index) buildIndexGroups() {
	q := container.NewPriorityQueue[string]()
	for _, id := range ix.order {
		q.Push(id, Priority(id))
	}
	q.Heapify()
	ix.indexGroups = make([][]string, ix.MaxIndex+1)
	for _, id := range q.Drain() {
		for _, i := range ix.groupIndices[id] {
			ix.indexGroups[i] = append(ix.indexGroups[i], id)
		}
	}
}

// Subset 只保留keep为真的信号组，重新建立映射
// 说明：过渡灯色时长沿用原索引（按index记录的时长来自全部信号组）
func (ix *Index) Subset(keep func(id string) bool) *Index {
	sub := &Index{
		order:          make([]string, 0, len(ix.order)),
		groupIndices:   make(map[string][]int),
		MaxIndex:       -1,
		yellow:         ix.yellow,
		redYellow:      ix.redYellow,
		groupYellow:    ix.groupYellow,
		groupRedYellow: ix.groupRedYellow,
		nodeOf:         make(map[string]int),
		partialNodes:   make(map[int][]string),
	}
	for _, id := range ix.order {
		if !keep(id) {
			continue
		}
		indices := ix.groupIndices[id]
		sub.order = append(sub.order, id)
		sub.groupIndices[id] = indices
		sub.MaxIndex = lo.Max(append([]int{sub.MaxIndex}, indices...))
		node := ix.nodeOf[id]
		sub.nodeOf[id] = node
		sub.partialNodes[node] = append(sub.partialNodes[node], id)
	}
	sub.buildIndexGroups()
	return sub
}

// Has 信号组是否在索引中
func (ix *Index) Has(id string) bool {
	_, ok := ix.groupIndices[id]
	return ok
}

// Groups 全部信号组ID（文档顺序）
func (ix *Index) Groups() []string {
	return ix.order
}

// Indices 信号组对应的link index，未知信号组返回nil
func (ix *Index) Indices(id string) []int {
	return ix.groupIndices[id]
}

// GroupsAt link index上的信号组（按优先级排列）
func (ix *Index) GroupsAt(i int) []string {
	if i < 0 || i >= len(ix.indexGroups) {
		return nil
	}
	return ix.indexGroups[i]
}

// IndexGroups 全部link index -> 信号组（按优先级排列），长度为MaxIndex+1
func (ix *Index) IndexGroups() [][]string {
	return ix.indexGroups
}

// Slots link index上复合灯色的槽位数，至少为1
func (ix *Index) Slots(i int) int {
	return max(1, len(ix.GroupsAt(i)))
}

// Slot 信号组在link index上的槽位，不在该index上时返回-1
func (ix *Index) Slot(id string, i int) int {
	return lo.IndexOf(ix.GroupsAt(i), id)
}

// SlotCounts 每个link index的槽位数
func (ix *Index) SlotCounts() []int {
	res := make([]int, ix.MaxIndex+1)
	for i := range res {
		res[i] = ix.Slots(i)
	}
	return res
}

// Yellow link index的黄灯时长，缺省为0
func (ix *Index) Yellow(i int) int { return ix.yellow[i] }

// RedYellow link index的红黄时长，缺省为0
func (ix *Index) RedYellow(i int) int { return ix.redYellow[i] }

// GroupYellow 信号组的黄灯时长，缺省为0
func (ix *Index) GroupYellow(id string) int { return ix.groupYellow[id] }

// GroupRedYellow 信号组的红黄时长，缺省为0
func (ix *Index) GroupRedYellow(id string) int { return ix.groupRedYellow[id] }

// Node 信号组所属子节点
func (ix *Index) Node(id string) (int, bool) {
	n, ok := ix.nodeOf[id]
	return n, ok
}

// PartialNodes 子节点 -> 信号组ID（文档顺序）
func (ix *Index) PartialNodes() map[int][]string {
	return ix.partialNodes
}

// HeaderGroups 输出注释中link index对应的信号组（文档顺序）
func (ix *Index) HeaderGroups(i int) []string {
	res := make([]string, 0)
	for _, id := range ix.order {
		for _, i2 := range ix.groupIndices[id] {
			if i2 == i {
				res = append(res, id)
			}
		}
	}
	return res
}

// LogDump 输出信号组映射（Debug级别）
func (ix *Index) LogDump() {
	log.Debug("group -> indices")
	ids := append([]string(nil), ix.order...)
	sort.Strings(ids)
	for _, id := range ids {
		log.Debugf("%s %v", id, ix.groupIndices[id])
	}
	log.Debug("index -> groups")
	for i, groups := range ix.indexGroups {
		if len(groups) > 0 {
			log.Debugf("%d %v", i, groups)
		}
	}
}
