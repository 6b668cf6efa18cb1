package types

import (
	"context"
	"net"
	"time"
)

// NodeRecord 定义了一个待检测节点的完整信息，是整个模块的核心数据结构。
// 它在加载时构建一次，之后只读；同一时刻最多只有一个 worker 持有它。
type NodeRecord struct {
	// Index 是加载时分配的 1 起始序号，全局唯一且稳定，
	// 最终报告按它排序以保证输出确定性。
	Index int `json:"index"`

	Name     string `json:"name"`
	Flag     string `json:"flag,omitempty"`
	IP       string `json:"ip,omitempty"`
	Entry    string `json:"entry,omitempty"`
	Exit     string `json:"exit,omitempty"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	ISP      string `json:"isp,omitempty"`
	Protocol string `json:"protocol,omitempty"` // 小写；空串表示未知协议

	// Raw 保存输入中的原始键值对，透传，不参与探测。
	Raw map[string]any `json:"-"`
}

// ProbeOutcome 是一次节点检测的终态结果。
// Status/Latency 仅在完成了一次完整 HTTP 交换时存在；
// ErrorCode 仅在传输层失败时存在。
type ProbeOutcome struct {
	Active    bool
	Status    *int
	Latency   *time.Duration
	ErrorCode string
	Reason    string // 例如 "incompatible"，表示被跳过而非失败
}

// ContextDialer 抽象了"拨出一条到 host:port 的字节流"这一能力。
// 直连与经中继（HTTP CONNECT / SOCKS5）建立隧道都实现此接口；
// net.Dialer 与 golang.org/x/net/proxy 的 ContextDialer 天然兼容。
type ContextDialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// RunSummary 在一次运行结束时生成一次，只读。
type RunSummary struct {
	RunID    string `json:"run_id"`
	Total    int    `json:"total"`
	Active   int    `json:"active"`
	Filtered int    `json:"filtered"`
	URL      string `json:"url"`
	Status   string `json:"status"`
}

// ReportNode 是最终报告中的一条节点记录。
type ReportNode struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Flag     string   `json:"flag,omitempty"`
	IP       string   `json:"ip,omitempty"`
	Entry    string   `json:"entry,omitempty"`
	Exit     string   `json:"exit,omitempty"`
	Country  string   `json:"country,omitempty"`
	City     string   `json:"city,omitempty"`
	ISP      string   `json:"isp,omitempty"`
	Protocol string   `json:"protocol,omitempty"`
	Active   bool     `json:"active"`
	Status   *int     `json:"status"`
	Latency  *float64 `json:"latency"` // 毫秒
	Renamed  string   `json:"renamed"`
	Route    string   `json:"route"`
	Reason   string   `json:"reason,omitempty"`
}

// Report 是写入输出文件（或 stdout）的顶层文档。
type Report struct {
	Summary RunSummary   `json:"summary"`
	Nodes   []ReportNode `json:"nodes"`
}
