package output

import (
	"io"
	"strconv"
	"strings"
)

// rulerInterval 每隔多少行输出一次link index标尺
const rulerInterval = 40

// WriteAGLOSA 写出AGLOSA配置（Python字典PHASE_PROPERTIES）
// 功能：每个周期一个字典，每行为(state, 时长, 起始编号, 目标编号)，注释为步序号与相位/过渡ID
// 说明：每40行输出两行link index标尺（十位与个位）；时长不做phaseDuration替换
func WriteAGLOSA(w io.Writer, tlss []TLS) error {
	ew := &errWriter{w: w}
	for _, tls := range tlss {
		subnode := ""
		if tls.NodeID != "" {
			subnode = " # Teilknoten " + tls.NodeID
		}
		ew.printf("PHASE_PROPERTIES = {%s\n", subnode)
		for i, s := range tls.Steps {
			if i%rulerInterval == 0 {
				var tens, ones strings.Builder
				for i2 := 0; i2 < len(s.State); i2++ {
					tens.WriteString(strconv.Itoa(i2 / 10))
					ones.WriteString(strconv.Itoa(i2 % 10))
				}
				ew.printf("         #%s\n", tens.String())
				ew.printf("         #%s\n", ones.String())
			}
			comment := strings.ReplaceAll(s.Annotation, "PÜ", "PT")
			if s.Next == -1 && len(comment) >= 9 {
				comment = comment[9:]
			}
			ew.printf("  %3d : (\"%s\", %2d, %2d, %2d), # %s\n", i, s.State, s.Duration, s.Major, s.MajorNext, comment)
		}
		ew.printf("}\n\n\n")
	}
	return ew.err
}
