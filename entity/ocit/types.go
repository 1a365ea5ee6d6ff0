// OCIT信号控制数据的记录模型
// 由外部解析器（XML->记录）产出，核心编译流程只读取这些记录，不接触原始标记语言
package ocit

// ClearanceElement 信号组开/关灯过渡元素
// 功能：记录AnwurfUebergang/AbwurfUebergang下第一个Uebergangselement的持续时间
// 说明：Duration为nil表示记录中缺失该字段，按0处理
type ClearanceElement struct {
	Duration *int `yaml:"duration,omitempty" bson:"duration,omitempty"` // 持续时间（tick）
}

// SignalGroup 信号组（Signalgruppe）
// 功能：描述一个物理信号灯组及其对应的仿真器link index
// 说明：link index以分号分隔的整数列表形式写在第一条备注（Bemerkung）中
type SignalGroup struct {
	ID           string             `yaml:"id" bson:"id"`                                         // 短名称（BezeichnungKurz）
	PartialNode  *int               `yaml:"partial_node,omitempty" bson:"partial_node,omitempty"` // 所属子节点（AbschaltTeilknoten），为空则使用默认子节点
	Comments     []string           `yaml:"comments,omitempty" bson:"comments,omitempty"`         // 备注列表，第一条为link index列表
	Activation   []ClearanceElement `yaml:"activation,omitempty" bson:"activation,omitempty"`     // 开灯过渡（红黄）
	Deactivation []ClearanceElement `yaml:"deactivation,omitempty" bson:"deactivation,omitempty"` // 关灯过渡（黄）
}

// PhaseElement 相位中单个信号组的灯色
type PhaseElement struct {
	Group  string `yaml:"group" bson:"group"`   // 信号组ID
	Signal string `yaml:"signal" bson:"signal"` // 灯色（Signalbild）
}

// Phase 相位（Phase）
type Phase struct {
	ID       string         `yaml:"id" bson:"id"`
	Elements []PhaseElement `yaml:"elements,omitempty" bson:"elements,omitempty"`
}

// Switch 切换事件：在Time时刻切换到Signal灯色
type Switch struct {
	Time   int    `yaml:"time" bson:"time"`     // 切换时刻（Schaltzeitpunkt）
	Signal string `yaml:"signal" bson:"signal"` // 新灯色
}

// SwitchingElement 相位过渡中单个信号组的切换信息（PUeElement）
type SwitchingElement struct {
	Group    string   `yaml:"group" bson:"group"`
	Initial  *string  `yaml:"initial,omitempty" bson:"initial,omitempty"` // 起始灯色（StartSignalbild），可缺省
	Switches []Switch `yaml:"switches,omitempty" bson:"switches,omitempty"`
}

// Transition 相位过渡（Phasenuebergang）
// 功能：描述从From相位切换到To相位期间各信号组的切换时刻
// 说明：From/To缺失的过渡无法编译，会被跳过
type Transition struct {
	ID       string             `yaml:"id" bson:"id"`
	Duration int                `yaml:"duration" bson:"duration"` // 过渡总时长（Dauer）
	From     *string            `yaml:"from,omitempty" bson:"from,omitempty"`
	To       *string            `yaml:"to,omitempty" bson:"to,omitempty"`
	Elements []SwitchingElement `yaml:"elements,omitempty" bson:"elements,omitempty"`
}

// ProgramRow 信号程序中的一行（SPZeile）
// 说明：Switches与Permanent二选一，都为空时该行无法解释
type ProgramRow struct {
	Group     string   `yaml:"group" bson:"group"`
	Switches  []Switch `yaml:"switches,omitempty" bson:"switches,omitempty"`
	Permanent *string  `yaml:"permanent,omitempty" bson:"permanent,omitempty"` // 常亮灯色（DauerSignalbild）
}

// Program 信号程序（Signalprogramm）
type Program struct {
	ID        string       `yaml:"id" bson:"id"`
	CycleTime int          `yaml:"cycle_time" bson:"cycle_time"` // 周期时长（TU）
	Rows      []ProgramRow `yaml:"rows,omitempty" bson:"rows,omitempty"`
}

// Document 一份OCIT文档解析后的全部记录
// 说明：各列表保持原文档中的顺序，编译结果依赖该顺序
type Document struct {
	SignalGroups []SignalGroup `yaml:"signal_groups" bson:"signal_groups"`
	Phases       []Phase       `yaml:"phases" bson:"phases"`
	Transitions  []Transition  `yaml:"transitions" bson:"transitions"`
	Programs     []Program     `yaml:"programs" bson:"programs"`
}

// PhaseIDs 返回文档中所有相位的ID（文档顺序）
func (d *Document) PhaseIDs() []string {
	ids := make([]string, 0, len(d.Phases))
	for _, p := range d.Phases {
		ids = append(ids, p.ID)
	}
	return ids
}
