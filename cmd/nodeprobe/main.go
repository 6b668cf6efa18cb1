package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"nodeprobe/internal/core/checker"
	"nodeprobe/internal/shared/config"
	"nodeprobe/internal/shared/logger"
	"nodeprobe/internal/shared/types"
	"nodeprobe/internal/source"
)

func main() {
	configPath := flag.String("config", "configs/nodeprobe.ini", "Path to ini config file")
	inputPath := flag.String("input", "", "Path to a JSON file containing a list of nodes")
	outputPath := flag.String("output", "", "Where to write the report, defaults to stdout")
	probeURL := flag.String("url", "", "Probe URL override")
	statusExpr := flag.String("status", "", "Status expression override, e.g. \"204,200-299\"")
	concurrency := flag.Int("concurrency", 0, "Worker count override")
	pattern := flag.String("pattern", "", "Rename pattern override")
	includeInactive := flag.Bool("include-inactive", false, "Keep inactive nodes in the output")
	keepIncompatible := flag.Bool("keep-incompatible", false, "Probe nodes with unsupported protocols anyway")
	skipProbe := flag.Bool("skip-probe", false, "Mark every node active without probing")
	flag.Parse()

	// 1. 加载 .ini 行为配置（缺省值 + 文件覆盖 + 命令行覆盖）
	cfg := types.DefaultConfig()
	if err := config.LoadIni(cfg, *configPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		os.Exit(1)
	}

	// 1.1 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// 1.2 命令行标志覆盖 ini
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.ProbeConf.URL = *probeURL
		case "status":
			cfg.ProbeConf.Status = *statusExpr
		case "concurrency":
			cfg.ProbeConf.Concurrency = *concurrency
		case "pattern":
			cfg.OutputConf.Pattern = *pattern
		case "output":
			cfg.OutputConf.File = *outputPath
		case "include-inactive":
			cfg.ProbeConf.IncludeInactive = *includeInactive
		case "keep-incompatible":
			cfg.ProbeConf.KeepIncompatible = *keepIncompatible
		case "skip-probe":
			cfg.ProbeConf.SkipProbe = *skipProbe
		}
	})

	// 2. 加载节点列表
	src, err := source.New(cfg.SourceConf, *inputPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build node source")
	}
	rawNodes, err := src.Fetch()
	if err != nil {
		logger.Fatal().Err(err).Msgf("Failed to load nodes from '%s'", src.Name())
	}
	nodes := config.NodesFromRaw(rawNodes)

	// 3. 构建并运行探测引擎
	chk, err := checker.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid probe configuration")
	}
	report, err := chk.Run(context.Background(), nodes)
	if err != nil {
		logger.Fatal().Err(err).Msg("Probe run failed")
	}

	// 4. 写出报告
	if err := config.WriteReport(cfg.OutputConf.File, report); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write report")
	}
}
