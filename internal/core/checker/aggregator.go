package checker

import (
	"sort"

	"nodeprobe/internal/rename"
	"nodeprobe/internal/shared/types"
)

// buildReport 把各结果槽合并成最终报告：按 Index 排序、
// 应用 include_inactive 过滤、展开重命名模板、生成摘要。
func (c *Checker) buildReport(nodes []*types.NodeRecord, outcomes []*types.ProbeOutcome, active int) (*types.Report, error) {
	entries := make([]types.ReportNode, 0, len(nodes))

	for i, node := range nodes {
		outcome := outcomes[i]
		if outcome == nil {
			// 只有运行被外部取消时才可能出现空槽。
			outcome = &types.ProbeOutcome{}
		}
		if !outcome.Active && !c.cfg.ProbeConf.IncludeInactive {
			continue
		}

		renamed, err := rename.Expand(c.cfg.OutputConf.Pattern, node)
		if err != nil {
			return nil, err
		}

		entry := types.ReportNode{
			Index:    node.Index,
			Name:     node.Name,
			Flag:     node.Flag,
			IP:       node.IP,
			Entry:    node.Entry,
			Exit:     node.Exit,
			Country:  node.Country,
			City:     node.City,
			ISP:      node.ISP,
			Protocol: node.Protocol,
			Active:   outcome.Active,
			Status:   outcome.Status,
			Renamed:  renamed,
			Route:    rename.Route(node),
			Reason:   outcome.Reason,
		}
		if outcome.Latency != nil {
			ms := float64(outcome.Latency.Microseconds()) / 1000.0
			entry.Latency = &ms
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	return &types.Report{
		Summary: types.RunSummary{
			RunID:    c.runID,
			Total:    len(nodes),
			Active:   active,
			Filtered: len(entries),
			URL:      c.cfg.ProbeConf.URL,
			Status:   c.matcher.String(),
		},
		Nodes: entries,
	}, nil
}
