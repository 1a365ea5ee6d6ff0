package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity/program"
)

// WriteSUMO 写出相位列表模式的SUMO additional文件
// 参数：w-输出，tlss-各周期的相位程序，phaseDuration-稳定相位（MajorNext为0）使用的时长
// 说明：每个tlLogic之前输出link index到信号组的对照注释，时长按phaseDuration的位数右侧补齐
func WriteSUMO(w io.Writer, tlss []TLS, phaseDuration int) error {
	ew := &errWriter{w: w}
	ew.printf("<additional>\n")
	for _, tls := range tlss {
		writeTLS(ew, tls, phaseDuration)
	}
	ew.printf("\n")
	ew.printf("</additional>\n")
	return ew.err
}

func writeTLS(ew *errWriter, tls TLS, phaseDuration int) {
	durLen := len(strconv.Itoa(phaseDuration))
	ew.printf("   <!-- sumo index to signal groups\n")
	for i := 0; i <= tls.Index.MaxIndex; i++ {
		ew.printf("   %2d: %s\n", i, strings.Join(tls.Index.HeaderGroups(i), " "))
	}
	ew.printf("   -->\n")
	ew.printf("   <tlLogic id=\"%s\" programID=\"ocit_import\">\n", tls.ID)
	for _, s := range tls.Steps {
		next := ""
		if s.Next >= 0 {
			next = " next=\"" + strconv.Itoa(s.Next) + "\""
		}
		dur := s.Duration
		if s.MajorNext == 0 {
			dur = phaseDuration
		}
		durStr := strconv.Itoa(dur)
		padding := strings.Repeat(" ", max(0, durLen-len(durStr)))
		ew.printf("       <phase duration=\"%s\"%s state=\"%s\"%s/>%s\n", durStr, padding, s.State, next, s.Annotation)
	}
	ew.printf("   </tlLogic>\n")
}

// WritePrograms 写出信号程序模式的SUMO additional文件
// 参数：w-输出，tlsID-信号灯ID，programs-各信号程序（文档顺序）
func WritePrograms(w io.Writer, tlsID string, programs []*program.CompiledProgram) error {
	ew := &errWriter{w: w}
	ew.printf("<additional>\n")
	for _, p := range programs {
		ew.printf("    <tlLogic id=\"%s\" type=\"static\" programID=\"%s\">\n", tlsID, p.ID)
		for _, s := range p.Steps {
			ew.printf("        <phase duration=\"%d\" state=\"%s\"/>\n", s.Duration, s.Value)
		}
		ew.printf("    </tlLogic>\n")
	}
	ew.printf("\n")
	ew.printf("</additional>\n")
	return ew.err
}
