// Package rename 根据模板为节点生成展示名。
// 模板占位符: {name} {flag} {ip} {entry} {exit}，
// 默认模板为 "{flag} {name} {entry}->{exit} ({ip})"。
package rename

import (
	"fmt"
	"regexp"
	"strings"

	"nodeprobe/internal/shared/types"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// Expand 将模板中的占位符替换为节点字段。
// 未知占位符是配置/模板缺陷，返回错误并使整个运行失败。
func Expand(pattern string, node *types.NodeRecord) (string, error) {
	fields := map[string]string{
		"name":  node.Name,
		"flag":  node.Flag,
		"ip":    node.IP,
		"entry": node.Entry,
		"exit":  node.Exit,
	}

	var badKey string
	out := placeholderPattern.ReplaceAllStringFunc(pattern, func(token string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		value, ok := fields[key]
		if !ok {
			badKey = key
			return token
		}
		return value
	})
	if badKey != "" {
		return "", fmt.Errorf("unknown rename placeholder: {%s}", badKey)
	}
	return out, nil
}

// Route 返回 "entry->exit" 形式的路径描述，缺失一侧用 "?" 占位。
func Route(node *types.NodeRecord) string {
	entry := node.Entry
	if entry == "" {
		entry = "?"
	}
	exit := node.Exit
	if exit == "" {
		exit = "?"
	}
	return entry + "->" + exit
}
