// 信号灯色解释表
// 将OCIT灯色记号翻译为仿真器灯色字母，并将同一link index上多个信号组的复合灯色归约为单个字母
package signalstate

// 仿真器灯色字母
const (
	Green      byte = 'G' // 主绿灯
	MinorGreen byte = 'g' // 次绿灯（需让行）
	Yellow     byte = 'y'
	Red        byte = 'r'
	RedYellow  byte = 'u'
	Off        byte = 'O' // 熄灭
	OffBlink   byte = 'o' // 黄闪/关闭
)

// colors OCIT灯色记号 -> 仿真器字母
var colors = map[string]byte{
	"gruen":   Green,
	"gelb":    Yellow,
	"rot":     Red,
	"rotgelb": RedYellow,
	"dunkel":  Off,
	"gelbblk": OffBlink,
	"00":      OffBlink,
	"08":      OffBlink,
	"03":      Red,
	"30":      Green,
	"0F":      RedYellow,
	"0C":      Yellow,
}

// combinations 复合灯色（按信号组优先级排列的字母序列） -> 单个字母
// 说明：键区分顺序，只收录实际出现过的组合
var combinations = map[string]byte{
	"rO": 'r', "Or": 'r', "ro": 'r', "rG": 'r',
	"Go": 'g', "go": 'g', "gO": 'g',
	"OG": 'G', "Gr": 'G', "GO": 'G',
	"yG": 'y', "yo": 'y', "yO": 'y', "yr": 'r',
	"uG": 'u', "uo": 'u', "uO": 'u', "ur": 'r',

	"rro": 'r', "rrO": 'r', "rOo": 'r', "rGo": 'r', "rGO": 'r', "rOO": 'r', "roO": 'r', "rOG": 'r',
	"OOr": 'r', "OGo": 'g', "OGO": 'G', "OrO": 'r',
	"gOo": 'g', "gGO": 'G',
	"Goo": 'G', "GoO": 'g', "GOo": 'g', "GOO": 'g', "goO": 'g', "GoG": 'G', "GOG": 'G', "GGO": 'G', "GGo": 'g', "GrO": 'G',
	"rGG": 'g',
	"uGO": 'G', "uoO": 'u', "uGG": 'u',
	"yOG": 'y', "yGo": 'y', "yGO": 'y', "yGG": 'y',
	"Ogo": 'g', "OgO": 'g', "Oro": 'r', "Orr": 'r', "OGr": 'G',
	"Grr": 'G', "rgO": 'r', "rgo": 'r', "Gro": 'G', "OrG": 'r',
	"uOG": 'u',
}

// IsGreen 判断字母是否为主/次绿灯
func IsGreen(letter byte) bool {
	return letter == Green || letter == MinorGreen
}
