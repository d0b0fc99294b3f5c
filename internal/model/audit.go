package model

import (
	"time"
)

// AuditLog 代表一次完整的请求审计记录
type AuditLog struct {
	ID        string `json:"id"`      // 唯一请求 ID (UUID)
	Domain    string `json:"domain"`  // 解析出的租户域名 (可能为空)
	Method    string `json:"method"`  // HTTP 方法
	Path      string `json:"path"`    // 请求路径
	IP        string `json:"ip"`      // 客户端 IP
	UserAgent string `json:"user_agent"`

	RequestBody  string `json:"request_body"` // 脱敏后
	StatusCode   int    `json:"status_code"`
	ResponseBody string `json:"response_body"`
	LatencyMs    int64  `json:"latency_ms"`

	// 业务上下文: 域名解析输入、拒绝原因、转账结果等
	Context map[string]interface{} `json:"context"`

	CreatedAt time.Time `json:"created_at"`
}
