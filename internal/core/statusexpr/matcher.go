// Package statusexpr 实现状态码分类表达式的编译与求值。
//
// 表达式由逗号分隔的子句组成，例如 "204,200-299,>=400"。
// 子句语法：整数精确匹配、A-B 闭区间、>=N / <=N / >N / <N / !=N 比较。
// 编译后的 Matcher 对所有子句取逻辑或，纯函数，可被所有 worker 无锁并发调用。
package statusexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError 标识无法解析的子句。出现即为致命配置错误，探测不会开始。
type ParseError struct {
	Clause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid status expression clause: %q", e.Clause)
}

type clause func(code int) bool

// Matcher 是编译后的状态分类器。
type Matcher struct {
	expr    string
	clauses []clause
}

// Compile 解析表达式并构建 Matcher。
// 空子句（例如结尾多余的逗号产生的）被静默丢弃；
// 解析后一个有效子句都没有同样是配置错误。
func Compile(expr string) (*Matcher, error) {
	m := &Matcher{expr: expr}
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseClause(part)
		if err != nil {
			return nil, err
		}
		m.clauses = append(m.clauses, c)
	}
	if len(m.clauses) == 0 {
		return nil, &ParseError{Clause: expr}
	}
	return m, nil
}

func parseClause(part string) (clause, error) {
	type prefixOp struct {
		prefix string
		build  func(n int) clause
	}
	// 顺序敏感：">=" 必须先于 ">" 检查。
	ops := []prefixOp{
		{">=", func(n int) clause { return func(code int) bool { return code >= n } }},
		{"<=", func(n int) clause { return func(code int) bool { return code <= n } }},
		{"!=", func(n int) clause { return func(code int) bool { return code != n } }},
		{">", func(n int) clause { return func(code int) bool { return code > n } }},
		{"<", func(n int) clause { return func(code int) bool { return code < n } }},
	}
	for _, op := range ops {
		if strings.HasPrefix(part, op.prefix) {
			n, err := strconv.Atoi(strings.TrimSpace(part[len(op.prefix):]))
			if err != nil {
				return nil, &ParseError{Clause: part}
			}
			return op.build(n), nil
		}
	}

	if lo, hi, ok := strings.Cut(part, "-"); ok {
		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		b, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA != nil || errB != nil {
			return nil, &ParseError{Clause: part}
		}
		// A>B 的区间匹配不到任何值，但不是解析错误。
		return func(code int) bool { return code >= a && code <= b }, nil
	}

	n, err := strconv.Atoi(part)
	if err != nil {
		return nil, &ParseError{Clause: part}
	}
	return func(code int) bool { return code == n }, nil
}

// Match 报告状态码是否命中任一子句。
func (m *Matcher) Match(code int) bool {
	for _, c := range m.clauses {
		if c(code) {
			return true
		}
	}
	return false
}

// String 返回编译时的原始表达式文本，用于写入报告摘要。
func (m *Matcher) String() string { return m.expr }
