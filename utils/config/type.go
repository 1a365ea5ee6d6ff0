package config

// InputPath 指定MongoDB中一类记录所在的集合
// 功能：定义数据输入路径的配置结构
type InputPath struct {
	DB  string `yaml:"db" validate:"required"`  // 数据库名
	Col string `yaml:"col" validate:"required"` // 集合名
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定OCIT记录来源的配置项
// 功能：定义编译器的所有输入数据配置
// 说明：File（YAML记录文件）优先级高于MongoDB，二者至少指定一个
type Input struct {
	File         string     `yaml:"file,omitempty" validate:"required_without=URI"`       // 记录文件路径（优先级高于MongoDB）
	URI          string     `yaml:"uri,omitempty" validate:"required_without=File"`       // MongoDB连接字符串
	SignalGroups *InputPath `yaml:"signal_groups,omitempty" validate:"required_with=URI"` // 信号组
	Phases       *InputPath `yaml:"phases,omitempty" validate:"required_with=URI"`        // 相位
	Transitions  *InputPath `yaml:"transitions,omitempty" validate:"required_with=URI"`   // 相位过渡
	Programs     *InputPath `yaml:"programs,omitempty"`                                   // 信号程序（仅程序模式需要）
	Cache        string     `yaml:"cache,omitempty"`                                      // MongoDB记录的本地缓存目录，为空则不缓存
}

// Trace 详细跟踪输出的选择器
// 功能：只对指定的link index/信号组/过渡输出额外的调试信息
// 说明：三项均为空时关闭跟踪；过渡按子串匹配
type Trace struct {
	Index      *int   `yaml:"index,omitempty" validate:"omitempty,gte=0"`
	Group      string `yaml:"group,omitempty"`
	Transition string `yaml:"transition,omitempty"`
}

// Output 输出配置
type Output struct {
	File        string `yaml:"file" validate:"required"`                      // 输出文件
	Format      string `yaml:"format" validate:"omitempty,oneof=sumo aglosa"` // 输出格式
	MetricsFile string `yaml:"metrics_file,omitempty"`                        // 编译统计（prometheus textfile格式），为空则不输出
}

// Control 编译控制配置
// 功能：定义编译过程的核心控制参数
// 说明：列表类参数使用逗号分隔，由NewRuntimeConfig解析为集合
type Control struct {
	TlsID         string `yaml:"tls_id" validate:"required"`     // 仿真路网中的信号灯ID
	MinDuration   int    `yaml:"min_duration" validate:"gte=0"`  // 主相位默认最小时长
	PhaseDuration int    `yaml:"phase_duration" validate:"gt=0"` // 主相位默认时长
	MinorIndex    string `yaml:"minor_index,omitempty"`          // 总是降级为次绿灯的link index
	MajorIndex    string `yaml:"major_index,omitempty"`          // 总是作为主绿灯的信号组（或link index）
	IgnorePhases  string `yaml:"ignore_phases,omitempty"`        // 忽略的相位编号
	IgnoreNodes   string `yaml:"ignore_nodes,omitempty"`         // 忽略的子节点编号
	NoGrouping    bool   `yaml:"no_grouping,omitempty"`          // 程序模式下不合并相同状态，每tick输出一项
	UsePrograms   bool   `yaml:"use_programs,omitempty"`         // 使用信号程序生成周期（程序模式）
	Verbose       bool   `yaml:"verbose,omitempty"`              // 输出中间结果
	Verify        bool   `yaml:"verify,omitempty"`               // 回放编译结果并与逐tick时间线比对
	Trace         Trace  `yaml:"trace,omitempty"`
}

// Config YAML配置文件的根结构
// 功能：定义整个编译器的配置结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Control Control `yaml:"control"` // 编译过程控制
	Output  Output  `yaml:"output"`  // 输出
}

// Default 返回带默认值的配置
func Default() Config {
	return Config{
		Control: Control{
			TlsID:         "TLS_ID",
			MinDuration:   5,
			PhaseDuration: 100,
		},
		Output: Output{
			File:   "lsa.add.xml",
			Format: "sumo",
		},
	}
}
