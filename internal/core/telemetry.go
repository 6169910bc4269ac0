package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAuthMiddleware     TraceSpanName = "auth_middleware"
	SpanDeletionTx         TraceSpanName = "deletion_transaction"
	SpanOutboxDrain        TraceSpanName = "identity_outbox_drain"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal    MetricName = "requests_total"
	MetricHttpRequestDuration  MetricName = "request_duration_seconds"
	MetricDeletionTotal        MetricName = "deletion_total"
	MetricDeletionDuration     MetricName = "deletion_duration_seconds"
	MetricIdentityCleanupTotal MetricName = "identity_cleanup_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelEntity   MetricLabelName = "entity"
	MetricLabelOutcome  MetricLabelName = "outcome"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Reason     string  `trace:"error.reason"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceAuthMiddlewareMeta struct {
	UserID   string `trace:"auth.user_id,omitempty"`
	TenantID string `trace:"auth.tenant_id,omitempty"`
	Role     string `trace:"auth.role,omitempty"`
	Status   string `trace:"auth.status,omitempty"`
}

// 刪除引擎（employee / department / designation）
type TraceDeletionMeta struct {
	Entity        string           `trace:"deletion.entity"`
	TenantID      string           `trace:"deletion.tenant_id"`
	EntityID      string           `trace:"deletion.entity_id"`
	ReassignTo    string           `trace:"deletion.reassign_to,omitempty"`
	RequesterRole string           `trace:"deletion.requester_role,omitempty"`
	TargetRole    string           `trace:"deletion.target_role,omitempty"`
	Dependencies  map[string]int64 `trace:"deletion.dependencies"`
	Outcome       string           `trace:"deletion.outcome,omitempty"`
}

type TraceOutboxMeta struct {
	TenantID       string `trace:"outbox.tenant_id"`
	JobID          string `trace:"outbox.job_id,omitempty"`
	ExternalUserID string `trace:"outbox.external_user_id,omitempty"`
	Attempts       int    `trace:"outbox.attempts"`
	Status         string `trace:"outbox.status,omitempty"`
}
