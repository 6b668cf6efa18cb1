package types

import "time"

// ProbeConf 包含探测引擎的行为配置。
type ProbeConf struct {
	URL              string `ini:"url"`
	Status           string `ini:"status"` // 状态分类表达式, e.g. "204,200-299"
	Concurrency      int    `ini:"concurrency"`
	TimeoutMs        int    `ini:"timeout_ms"`
	MaxRetries       int    `ini:"max_retries"`
	RetryDelayMs     int    `ini:"retry_delay_ms"`
	KeepIncompatible bool   `ini:"keep_incompatible"`
	IncludeInactive  bool   `ini:"include_inactive"`
	SkipProbe        bool   `ini:"skip_probe"`
}

// RelayConf 包含可选的中继配置。Host 为空时中继模式关闭，探测直连目标。
type RelayConf struct {
	Protocol       string `ini:"protocol"` // "http" (CONNECT) 或 "socks5"
	Host           string `ini:"host"`
	Port           int    `ini:"port"`
	StartDelayMs   int    `ini:"start_delay_ms"`   // 首次连接前等待外部中继就绪
	ProxyTimeoutMs int    `ini:"proxy_timeout_ms"` // 仅约束 CONNECT 协商本身
}

// OutputConf 包含重命名模板与报告输出位置。
type OutputConf struct {
	Pattern string `ini:"pattern"`
	File    string `ini:"file"` // 空串表示写 stdout
}

// SourceConf 选择节点列表来源。
type SourceConf struct {
	Kind string `ini:"kind"` // "file", "htmltable", "fps"
	URL  string `ini:"url"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是 nodeprobe 的统一配置结构体。
type Config struct {
	ProbeConf  `ini:"probe"`
	RelayConf  `ini:"relay"`
	OutputConf `ini:"output"`
	SourceConf `ini:"source"`
	LogConf    `ini:"log"`
}

// DefaultConfig 返回带有默认值的配置；ini 文件与命令行标志在其上覆盖。
func DefaultConfig() *Config {
	return &Config{
		ProbeConf: ProbeConf{
			URL:          "http://cp.cloudflare.com/generate_204",
			Status:       "204",
			Concurrency:  6,
			TimeoutMs:    1000,
			MaxRetries:   0,
			RetryDelayMs: 300,
		},
		RelayConf: RelayConf{
			Protocol:       "http",
			ProxyTimeoutMs: 5000,
		},
		OutputConf: OutputConf{
			Pattern: "{flag} {name} {entry}->{exit} ({ip})",
		},
		SourceConf: SourceConf{
			Kind: "file",
		},
		LogConf: LogConf{
			Level: "info",
		},
	}
}

// Timeout 返回单次探测的整体超时。
func (c *ProbeConf) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryDelay 返回两次重试之间的固定等待。
func (c *ProbeConf) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Enabled 报告中继模式是否开启。
func (c *RelayConf) Enabled() bool { return c.Host != "" }

// StartDelay 返回首次连接前的等待时间。
func (c *RelayConf) StartDelay() time.Duration {
	return time.Duration(c.StartDelayMs) * time.Millisecond
}

// ProxyTimeout 返回 CONNECT 协商的超时。
func (c *RelayConf) ProxyTimeout() time.Duration {
	return time.Duration(c.ProxyTimeoutMs) * time.Millisecond
}
