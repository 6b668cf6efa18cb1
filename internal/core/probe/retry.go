package probe

import (
	"context"
	"time"
)

// AttemptFunc 是一次探测尝试。测试中用桩函数替代真实的 Prober.Attempt。
type AttemptFunc func(ctx context.Context) (*Result, error)

// RetryPolicy 以固定间隔包装探测尝试。
// 间隔刻意不做指数退避：一次运行的尝试次数有界且寿命很短。
type RetryPolicy struct {
	MaxRetries int           // 额外重试次数，总尝试数为 MaxRetries+1
	Delay      time.Duration // 两次尝试之间的固定等待
}

// Run 执行至多 MaxRetries+1 次尝试。
// 任何一次拿到 HTTP 响应都立即终止循环——状态码不匹配是分类结果，
// 不是重试理由。只有传输层/超时失败才会重试；最后一次尝试之后不再等待。
// 全部失败时返回最后一次的错误。
func (r RetryPolicy) Run(ctx context.Context, attempt AttemptFunc) (*Result, error) {
	attempts := r.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := attempt(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i < attempts-1 && r.Delay > 0 {
			select {
			case <-time.After(r.Delay):
			case <-ctx.Done():
				return nil, lastErr
			}
		}
	}
	return nil, lastErr
}
