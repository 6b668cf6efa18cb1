// Package tunnel 提供探测用的底层拨号策略：直连、经 HTTP CONNECT 中继、
// 经 SOCKS5 中继。三者都以 types.ContextDialer 形式暴露，
// 上层 HTTP 传输按 URL scheme 决定是否在其上做 TLS，本包只负责字节流。
package tunnel

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/proxy"

	"nodeprobe/internal/shared/logger"
	"nodeprobe/internal/shared/types"
)

// TunnelError 表示与中继的 CONNECT 协商失败。
// Status 为中继返回的非 200 状态行；协商过程中的连接级错误时为 0。
type TunnelError struct {
	Status int
	Err    error
}

func (e *TunnelError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("relay refused CONNECT with status %d", e.Status)
	}
	return fmt.Sprintf("relay negotiation failed: %v", e.Err)
}

func (e *TunnelError) Unwrap() error { return e.Err }

// New 根据中继配置构建拨号器。Host 为空时返回直连拨号器。
func New(cfg types.RelayConf) (types.ContextDialer, error) {
	if !cfg.Enabled() {
		return &net.Dialer{}, nil
	}

	relayAddr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	gate := &startGate{delay: cfg.StartDelay()}

	switch cfg.Protocol {
	case "http", "":
		return &connectDialer{
			relayAddr:        relayAddr,
			negotiateTimeout: cfg.ProxyTimeout(),
			gate:             gate,
		}, nil
	case "socks5":
		base, err := proxy.SOCKS5("tcp", relayAddr, nil, &net.Dialer{})
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		return &socksDialer{dialer: base.(proxy.ContextDialer), gate: gate}, nil
	default:
		return nil, fmt.Errorf("unknown relay protocol: %q", cfg.Protocol)
	}
}

// startGate 保证启动延迟在整个运行周期里只生效一次：
// 第一次拨号前等待外部中继进程就绪，之后的拨号不再等待。
type startGate struct {
	delay time.Duration
	once  sync.Once
}

func (g *startGate) wait() {
	g.once.Do(func() {
		if g.delay > 0 {
			l := logger.WithComponent("Tunnel")
			l.Debug().Dur("delay", g.delay).Msg("Waiting for relay to become ready...")
			time.Sleep(g.delay)
		}
	})
}

// connectDialer 通过 HTTP CONNECT 中继建立到目标的隧道。
// 每次协商独立使用一条新的中继连接，单次失败只丢弃自己的连接，
// 不影响其他并发探测已建立的隧道。
type connectDialer struct {
	relayAddr        string
	negotiateTimeout time.Duration
	gate             *startGate
	dialer           net.Dialer
}

func (d *connectDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.gate.wait()

	conn, err := d.dialer.DialContext(ctx, "tcp", d.relayAddr)
	if err != nil {
		return nil, &TunnelError{Err: err}
	}

	// 协商阶段的超时独立于整体探测超时，只约束 CONNECT 本身；
	// 但无论它是否配置，协商都不能活过本次探测的 context deadline。
	var deadline time.Time
	if d.negotiateTimeout > 0 {
		deadline = time.Now().Add(d.negotiateTimeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}
	if !deadline.IsZero() {
		conn.SetDeadline(deadline)
	}

	connectReq := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	connectReq.Header.Set("User-Agent", "nodeprobe/1.0")

	if err := connectReq.Write(conn); err != nil {
		conn.Close()
		return nil, &TunnelError{Err: fmt.Errorf("failed to write CONNECT request: %w", err)}
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, connectReq)
	if err != nil {
		conn.Close()
		return nil, &TunnelError{Err: fmt.Errorf("failed to read CONNECT response: %w", err)}
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, &TunnelError{Status: resp.StatusCode}
	}

	// 协商完成，后续字节对中继透明；撤销协商期间的 deadline。
	conn.SetDeadline(time.Time{})
	return &tunnelConn{Conn: conn, reader: br}, nil
}

// tunnelConn 让读取先经过协商用的 bufio.Reader，
// 避免丢失 ReadResponse 之后已缓冲的字节。
type tunnelConn struct {
	net.Conn
	reader *bufio.Reader
}

func (c *tunnelConn) Read(p []byte) (int, error) { return c.reader.Read(p) }

// socksDialer 通过 SOCKS5 中继建立隧道。
type socksDialer struct {
	dialer proxy.ContextDialer
	gate   *startGate
}

func (d *socksDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.gate.wait()
	conn, err := d.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, &TunnelError{Err: err}
	}
	return conn, nil
}
