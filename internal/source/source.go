// Package source 提供节点列表的来源：本地 JSON 文件、
// 远端 HTML 表格页面、以及嵌在页面 JS 变量里的列表。
// Source 只负责取回原始记录，规范化与序号分配由 config 包完成。
package source

import (
	"fmt"

	"nodeprobe/internal/shared/types"
)

// Source 接口定义了取回一批原始节点记录的行为。
type Source interface {
	// Fetch 执行加载/抓取，返回原始键值记录，不做验证。
	Fetch() ([]map[string]any, error)

	// Name 返回来源名称，用于日志记录。
	Name() string
}

// New 根据配置构建来源。kind 为 "file" 时使用 inputFile 路径。
func New(cfg types.SourceConf, inputFile string) (Source, error) {
	switch cfg.Kind {
	case "file", "":
		if inputFile == "" {
			return nil, fmt.Errorf("file source requires an input path")
		}
		return NewFileSource(inputFile), nil
	case "htmltable":
		if cfg.URL == "" {
			return nil, fmt.Errorf("htmltable source requires a url")
		}
		return NewHTMLTableSource(cfg.URL), nil
	case "fps":
		if cfg.URL == "" {
			return nil, fmt.Errorf("fps source requires a url")
		}
		return NewFPSSource(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unknown source kind: %q", cfg.Kind)
	}
}
