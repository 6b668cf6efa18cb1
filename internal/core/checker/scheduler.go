// Package checker 实现并发探测引擎：固定大小的 worker 池消费共享的
// 节点队列，对每个节点执行 兼容性过滤 → 重试策略 → 探测尝试，
// 并把结果按节点序号写入结果槽，最终汇总成报告。
package checker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"nodeprobe/internal/core/probe"
	"nodeprobe/internal/core/statusexpr"
	"nodeprobe/internal/core/tunnel"
	"nodeprobe/internal/shared/logger"
	"nodeprobe/internal/shared/types"
)

// Checker 是一次探测运行的引擎。matcher 与 attempt 在构建后只读，
// 被所有 worker 并发共享。
type Checker struct {
	cfg     *types.Config
	matcher *statusexpr.Matcher
	attempt probe.AttemptFunc
	policy  probe.RetryPolicy
	runID   string
}

// New 构建 Checker。状态表达式或中继/URL 配置非法时返回错误，
// 此时不会发起任何探测。
func New(cfg *types.Config) (*Checker, error) {
	matcher, err := statusexpr.Compile(cfg.ProbeConf.Status)
	if err != nil {
		return nil, err
	}

	dialer, err := tunnel.New(cfg.RelayConf)
	if err != nil {
		return nil, err
	}
	prober, err := probe.NewProber(cfg.ProbeConf.URL, cfg.ProbeConf.Timeout(), dialer)
	if err != nil {
		return nil, err
	}

	return &Checker{
		cfg:     cfg,
		matcher: matcher,
		attempt: prober.Attempt,
		policy: probe.RetryPolicy{
			MaxRetries: cfg.ProbeConf.MaxRetries,
			Delay:      cfg.ProbeConf.RetryDelay(),
		},
		runID: uuid.NewString(),
	}, nil
}

// Run 并发探测全部节点并汇总报告。
// worker 间的完成顺序不确定，但结果槽按 Index 写入，
// 报告输出对相同输入是确定的。
func (c *Checker) Run(ctx context.Context, nodes []*types.NodeRecord) (*types.Report, error) {
	l := logger.WithComponent("Checker")

	workers := c.cfg.ProbeConf.Concurrency
	if workers < 1 {
		workers = 1
	}

	l.Info().Str("run_id", c.runID).Int("nodes", len(nodes)).
		Int("concurrency", workers).Str("url", c.cfg.ProbeConf.URL).
		Bool("relay", c.cfg.RelayConf.Enabled()).
		Msg("Starting probe run...")

	// 结果槽与 nodes 切片同位对齐，不假设 Index 连续；
	// 排序所需的 Index 在汇总阶段从节点本身读取。
	type job struct {
		slot int
		node *types.NodeRecord
	}
	queue := make(chan job)
	outcomes := make([]*types.ProbeOutcome, len(nodes))
	var activeCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				outcome := c.processNode(ctx, j.node)
				// 每个槽位只属于一个节点，写入无需加锁。
				outcomes[j.slot] = outcome
				if outcome.Active {
					activeCount.Add(1)
				}
			}
		}()
	}

	for i, node := range nodes {
		queue <- job{slot: i, node: node}
	}
	close(queue)
	wg.Wait()

	report, err := c.buildReport(nodes, outcomes, int(activeCount.Load()))
	if err != nil {
		return nil, err
	}

	l.Info().Str("run_id", c.runID).Int("active", report.Summary.Active).
		Int("filtered", report.Summary.Filtered).Msg("Probe run finished.")
	return report, nil
}

// processNode 处理单个节点：过滤 → 探测（带重试） → 分类。
// 传输层失败永远不会上升为进程级错误，只体现在该节点的结果里。
func (c *Checker) processNode(ctx context.Context, node *types.NodeRecord) *types.ProbeOutcome {
	l := logger.WithComponent("Checker")

	if !Compatible(node.Protocol) && !c.cfg.ProbeConf.KeepIncompatible {
		l.Debug().Int("index", node.Index).Str("name", node.Name).
			Str("protocol", node.Protocol).Msg("Skipping incompatible node.")
		return &types.ProbeOutcome{Reason: "incompatible"}
	}

	if c.cfg.ProbeConf.SkipProbe {
		return &types.ProbeOutcome{Active: true}
	}

	result, err := c.policy.Run(ctx, c.attempt)
	if err != nil {
		l.Debug().Int("index", node.Index).Str("name", node.Name).
			Str("error_code", probe.ErrorCode(err)).Err(err).Msg("Probe failed.")
		return &types.ProbeOutcome{ErrorCode: probe.ErrorCode(err)}
	}

	status := result.Status
	latency := result.Latency
	outcome := &types.ProbeOutcome{
		Active:  c.matcher.Match(status),
		Status:  &status,
		Latency: &latency,
	}
	l.Debug().Int("index", node.Index).Str("name", node.Name).
		Int("status", status).Dur("latency", latency).
		Bool("active", outcome.Active).Msg("Probe completed.")
	return outcome
}
