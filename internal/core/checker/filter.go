package checker

// 可探测协议白名单。名单外的协议说明节点需要本工具不具备的
// 专用客户端栈，直接发起 HTTP 探测没有意义。
var compatibleProtocols = map[string]struct{}{
	"http":   {},
	"https":  {},
	"h2":     {},
	"trojan": {},
	"ss":     {},
	"vmess":  {},
	"vless":  {},
	"tuic":   {},
}

// Compatible 报告该协议的节点是否可以探测。
// 未声明协议的节点默认可探测。
func Compatible(protocol string) bool {
	if protocol == "" {
		return true
	}
	_, ok := compatibleProtocols[protocol]
	return ok
}
