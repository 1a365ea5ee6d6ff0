package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tsinghua-fib-lab/ocit2sumo/output"
	"github.com/tsinghua-fib-lab/ocit2sumo/task"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/input"
)

var (
	// 配置文件路径
	configPath string
	// 配置文件Base64编码后的数据
	configData string

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel string

	// 覆盖配置文件的命令行参数，只有显式指定时生效
	overrides config.Config
	traceIdx  int

	log = logrus.WithField("module", "ocit2sumo")
)

var rootCmd = &cobra.Command{
	Use:           "ocit2sumo",
	Short:         "Compile OCIT signal plans into SUMO traffic light programs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logrus.SetFormatter(&easy.Formatter{
			TimestampFormat: "2006-01-02 15:04:05.0000",
			LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
		})
		// log: 运行时才修改
		level, ok := logLevels[logLevel]
		if !ok {
			return fmt.Errorf("log.level must be one of %v", logLevels)
		}
		logrus.SetLevel(level)
		return nil
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "config file path")
	f.StringVar(&configData, "config-data", "", "config file base64 encoded data")
	f.StringVar(&logLevel, "log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	f.StringVar(&overrides.Input.File, "input", "", "OCIT record file (YAML), takes precedence over MongoDB")
	f.StringVar(&overrides.Input.URI, "mongo-uri", "", "MongoDB URI of the OCIT records")
	f.StringVar(&overrides.Input.Cache, "cache", "", "cache dir for MongoDB records (empty means disable cache)")
	f.StringVarP(&overrides.Output.File, "output", "o", "", "output file")
	f.StringVar(&overrides.Output.Format, "format", "", "output format (sumo, aglosa)")
	f.StringVar(&overrides.Output.MetricsFile, "metrics-file", "", "write compile metrics in prometheus textfile format")

	f.StringVar(&overrides.Control.TlsID, "tls-id", "", "traffic light id in the SUMO network")
	f.IntVar(&overrides.Control.MinDuration, "min-duration", 0, "default minimum duration of major phases")
	f.IntVar(&overrides.Control.PhaseDuration, "phase-duration", 0, "default duration of major phases")
	f.StringVar(&overrides.Control.MinorIndex, "minor-index", "", "link indices always demoted to minor green, e.g. 1,4")
	f.StringVar(&overrides.Control.MajorIndex, "major-index", "", "signal groups (or link indices) always using major green")
	f.StringVar(&overrides.Control.IgnorePhases, "ignore-phases", "", "phase numbers to skip")
	f.StringVar(&overrides.Control.IgnoreNodes, "ignore-nodes", "", "sub node numbers to skip")
	f.BoolVar(&overrides.Control.NoGrouping, "no-grouping", false, "emit one phase per tick in program mode")
	f.BoolVar(&overrides.Control.UsePrograms, "use-programs", false, "build cycles from signal programs instead of phases")
	f.BoolVar(&overrides.Control.Verbose, "verbose", false, "log intermediate results")
	f.BoolVar(&overrides.Control.Verify, "verify", false, "replay the compiled programs and compare them with the timelines")
	f.IntVar(&traceIdx, "trace-index", -1, "trace one link index (negative means no index filter)")
	f.StringVar(&overrides.Control.Trace.Group, "trace-group", "", "trace one signal group")
	f.StringVar(&overrides.Control.Trace.Transition, "trace-transition", "", "trace transitions containing this id")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd.Flags(), &c)
	if err := config.Validate(c); err != nil {
		return err
	}
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return err
	}
	log.Infof("%+v", c)

	ctx := cmd.Context()
	doc, err := input.Load(ctx, c.Input)
	if err != nil {
		return err
	}
	metrics := task.NewMetrics()
	res, err := task.New(rc, doc, metrics).Run(ctx)
	if err == nil {
		res.Diagnostics.LogAll()
		err = writeOutput(c, res)
	}
	if c.Output.MetricsFile != "" {
		if mErr := metrics.WriteFile(c.Output.MetricsFile); mErr != nil {
			log.Warnf("write metrics failed: %v", mErr)
		}
	}
	if err != nil {
		return err
	}
	if failed := res.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d cycles failed", len(failed), len(res.Cycles))
	}
	return nil
}

// loadConfig 获取配置：文件路径优先，其次为Base64编码的数据，都未指定时使用默认值
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	if configData != "" {
		file, err := base64.StdEncoding.DecodeString(configData)
		if err != nil {
			return config.Config{}, fmt.Errorf("config data load err: %w", err)
		}
		return config.Parse(file)
	}
	return config.Load("")
}

func applyOverrides(f *pflag.FlagSet, c *config.Config) {
	o := overrides
	set := map[string]func(){
		"input":            func() { c.Input.File = o.Input.File },
		"mongo-uri":        func() { c.Input.URI = o.Input.URI },
		"cache":            func() { c.Input.Cache = o.Input.Cache },
		"output":           func() { c.Output.File = o.Output.File },
		"format":           func() { c.Output.Format = o.Output.Format },
		"metrics-file":     func() { c.Output.MetricsFile = o.Output.MetricsFile },
		"tls-id":           func() { c.Control.TlsID = o.Control.TlsID },
		"min-duration":     func() { c.Control.MinDuration = o.Control.MinDuration },
		"phase-duration":   func() { c.Control.PhaseDuration = o.Control.PhaseDuration },
		"minor-index":      func() { c.Control.MinorIndex = o.Control.MinorIndex },
		"major-index":      func() { c.Control.MajorIndex = o.Control.MajorIndex },
		"ignore-phases":    func() { c.Control.IgnorePhases = o.Control.IgnorePhases },
		"ignore-nodes":     func() { c.Control.IgnoreNodes = o.Control.IgnoreNodes },
		"no-grouping":      func() { c.Control.NoGrouping = o.Control.NoGrouping },
		"use-programs":     func() { c.Control.UsePrograms = o.Control.UsePrograms },
		"verbose":          func() { c.Control.Verbose = o.Control.Verbose },
		"verify":           func() { c.Control.Verify = o.Control.Verify },
		"trace-index":      func() { c.Control.Trace.Index = traceIndex() },
		"trace-group":      func() { c.Control.Trace.Group = o.Control.Trace.Group },
		"trace-transition": func() { c.Control.Trace.Transition = o.Control.Trace.Transition },
	}
	f.Visit(func(flag *pflag.Flag) {
		if apply, ok := set[flag.Name]; ok {
			apply()
		}
	})
}

// traceIndex 负数表示不按link index过滤
func traceIndex() *int {
	if traceIdx < 0 {
		return nil
	}
	idx := traceIdx
	return &idx
}

// writeOutput 按输出格式写出编译结果，相位列表模式只写出编译成功的周期
func writeOutput(c config.Config, res *task.Result) error {
	file, err := os.Create(c.Output.File)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)

	if c.Control.UsePrograms {
		err = output.WritePrograms(w, c.Control.TlsID, res.Programs)
	} else {
		tlss := make([]output.TLS, 0, len(res.Cycles))
		for _, r := range res.Cycles {
			if r.Err != nil {
				continue
			}
			tlss = append(tlss, output.TLS{ID: r.TlsID, NodeID: r.Cycle.NodeID, Index: r.Index, Steps: r.Steps})
		}
		switch c.Output.Format {
		case "aglosa":
			err = output.WriteAGLOSA(w, tlss)
		default:
			err = output.WriteSUMO(w, tlss, c.Control.PhaseDuration)
		}
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Infof("wrote %s", c.Output.File)
	return nil
}
