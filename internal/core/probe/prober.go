// Package probe 执行对单个目标 URL 的一次计时 HTTP 探测，
// 并提供固定间隔的重试策略。
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"nodeprobe/internal/core/tunnel"
	"nodeprobe/internal/shared/types"
)

// Result 是一次成功尝试的结果：收到了完整的 HTTP 响应。
// 状态码本身是否"健康"由调用方用 statusexpr 判定，不属于尝试的成败。
type Result struct {
	Status  int
	Latency time.Duration
}

// AttemptError 表示一次尝试在传输层失败，没有拿到任何 HTTP 响应。
type AttemptError struct {
	Code    string // "timeout", "dns", "refused", "reset", "tunnel", "transport"
	Timeout bool
	Err     error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("probe attempt failed (%s): %v", e.Code, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// ErrorCode 提取传输层错误码；非 AttemptError 时返回 "transport"。
func ErrorCode(err error) string {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "transport"
}

// Prober 对固定 URL 发起探测。一个 Prober 被所有 worker 共享：
// 底层 http.Transport 的连接池使隧道在多次探测间可以 keep-alive 复用。
type Prober struct {
	url      *url.URL
	timeout  time.Duration
	client   *http.Client
	wsDialer *websocket.Dialer
}

// NewProber 构建探测器。dialer 决定直连还是经中继建立隧道；
// scheme 决定是否在其上叠加 TLS（https/wss）。
func NewProber(rawURL string, timeout time.Duration, dialer types.ContextDialer) (*Prober, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid probe url: %w", err)
	}

	p := &Prober{url: u, timeout: timeout}
	tlsConfig := &tls.Config{InsecureSkipVerify: true}

	switch u.Scheme {
	case "http", "https":
		p.client = &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSClientConfig:     tlsConfig,
				TLSHandshakeTimeout: timeout,
				IdleConnTimeout:     30 * time.Second,
			},
			// 一次尝试就是一次 GET：重定向状态码原样透出给分类器，不跟随。
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	case "ws", "wss":
		p.wsDialer = &websocket.Dialer{
			NetDialContext:   dialer.DialContext,
			TLSClientConfig:  tlsConfig,
			HandshakeTimeout: timeout,
		}
	default:
		return nil, fmt.Errorf("unsupported probe url scheme: %q", u.Scheme)
	}
	return p, nil
}

// Attempt 执行一次探测。超时或连接级错误返回 *AttemptError；
// 只要拿到 HTTP 响应（无论状态码）就算尝试成功。
// 超时触发时通过 context 取消立即关闭在途连接，而不是仅停止等待。
func (p *Prober) Attempt(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.wsDialer != nil {
		return p.attemptWebSocket(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url.String(), nil)
	if err != nil {
		return nil, &AttemptError{Code: "transport", Err: err}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	latency := time.Since(start)

	// 排空并关闭 body，让连接可以回到连接池复用。
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	return &Result{Status: resp.StatusCode, Latency: latency}, nil
}

// attemptWebSocket 以一次 WebSocket 握手作为探测。
// 握手被服务器以普通 HTTP 状态拒绝时（ErrBadHandshake）仍算完成了
// 一次 HTTP 交换，状态码交给上层分类。
func (p *Prober) attemptWebSocket(ctx context.Context) (*Result, error) {
	start := time.Now()
	conn, resp, err := p.wsDialer.DialContext(ctx, p.url.String(), nil)
	latency := time.Since(start)

	if err == nil {
		conn.Close()
		return &Result{Status: resp.StatusCode, Latency: latency}, nil
	}
	if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
		resp.Body.Close()
		return &Result{Status: resp.StatusCode, Latency: latency}, nil
	}
	return nil, classify(err)
}

// classify 将传输层错误归类为带错误码的 AttemptError。
func classify(err error) *AttemptError {
	var tunnelErr *tunnel.TunnelError
	if errors.As(err, &tunnelErr) {
		return &AttemptError{Code: "tunnel", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AttemptError{Code: "timeout", Timeout: true, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AttemptError{Code: "timeout", Timeout: true, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &AttemptError{Code: "dns", Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &AttemptError{Code: "refused", Err: err}
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return &AttemptError{Code: "reset", Err: err}
	}
	return &AttemptError{Code: "transport", Err: err}
}
