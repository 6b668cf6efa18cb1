package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"nodeprobe/internal/shared/types"
)

// LoadIni 只加载 nodeprobe.ini 行为配置文件。文件不存在时保留默认值。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return iniFile.MapTo(cfg)
}

// 各字段在输入里可能出现的别名，按优先级排列。
var fieldAliases = map[string][]string{
	"name":     {"name", "remarks", "title"},
	"flag":     {"flag", "emoji"},
	"ip":       {"ip", "address", "addr", "server"},
	"entry":    {"entry", "ingress", "inbound", "source", "from"},
	"exit":     {"exit", "egress", "destination", "to", "outbound"},
	"country":  {"country", "country_name", "region"},
	"city":     {"city"},
	"isp":      {"isp", "provider", "org"},
	"protocol": {"protocol", "proto", "type"},
}

func firstNonEmpty(raw map[string]any, field string) string {
	for _, key := range fieldAliases[field] {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprintf("%v", value))
		if text != "" {
			return text
		}
	}
	return ""
}

// NodeFromRaw 将一条原始输入记录规范化为 NodeRecord。
// index 为 1 起始的加载序号。
func NodeFromRaw(raw map[string]any, index int) *types.NodeRecord {
	name := firstNonEmpty(raw, "name")
	if name == "" {
		name = "unnamed"
	}
	return &types.NodeRecord{
		Index:    index,
		Name:     name,
		Flag:     firstNonEmpty(raw, "flag"),
		IP:       firstNonEmpty(raw, "ip"),
		Entry:    firstNonEmpty(raw, "entry"),
		Exit:     firstNonEmpty(raw, "exit"),
		Country:  firstNonEmpty(raw, "country"),
		City:     firstNonEmpty(raw, "city"),
		ISP:      firstNonEmpty(raw, "isp"),
		Protocol: strings.ToLower(firstNonEmpty(raw, "protocol")),
		Raw:      raw,
	}
}

// NodesFromRaw 批量规范化并按输入顺序分配序号。
func NodesFromRaw(rawNodes []map[string]any) []*types.NodeRecord {
	nodes := make([]*types.NodeRecord, 0, len(rawNodes))
	for i, raw := range rawNodes {
		nodes = append(nodes, NodeFromRaw(raw, i+1))
	}
	return nodes
}

// WriteReport 将最终报告写入文件，fileName 为空时写 stdout。
func WriteReport(fileName string, report *types.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if fileName == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(fileName, append(data, '\n'), 0644)
}
