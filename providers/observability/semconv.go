package observability

// Call attributes describe one gated invocation.
const (
	AttrProvider  = "aisdk.provider"
	AttrModel     = "aisdk.model"
	AttrCall      = "aisdk.call"
	AttrRequestID = "aisdk.request_id"
	AttrInputSize = "aisdk.input.bytes"
	AttrDuration  = "aisdk.duration"
	AttrOutcome   = "aisdk.outcome"
)

// Middleware attributes.
const (
	AttrGateIndex = "aisdk.gate.index"
	AttrGateCount = "aisdk.gate.count"
)

// Stream attributes.
const (
	AttrStreamFrames  = "aisdk.stream.frames"
	AttrStreamSkipped = "aisdk.stream.skipped"
	AttrStreamPrefix  = "aisdk.stream.prefix"
)

// Tool attributes.
const (
	AttrToolName   = "tool.name"
	AttrToolInput  = "tool.input"
	AttrToolOutput = "tool.output"
)

// HTTP attributes.
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPURL        = "http.url"
	AttrHTTPStatusCode = "http.status_code"
)

// Error attributes.
const (
	AttrError     = "error"
	AttrErrorType = "error.type"
)

// Outcome values recorded under AttrOutcome.
const (
	OutcomeOK     = "ok"
	OutcomeVetoed = "vetoed"
	OutcomeFailed = "failed"
)

// Span names.
const (
	SpanCall      = "aisdk.call"
	SpanToolExec  = "aisdk.tool.execute"
	SpanHTTP      = "aisdk.http"
	SpanRelayCall = "aisdk.relay"
)

// Event names.
const (
	EventGatesPassed = "aisdk.gates.passed"
	EventVetoed      = "aisdk.vetoed"
)

// Metric names.
const (
	MetricCalls        = "aisdk.calls"
	MetricCallsVetoed  = "aisdk.calls.vetoed"
	MetricCallsFailed  = "aisdk.calls.failed"
	MetricCallDuration = "aisdk.call.duration_ms"
	MetricToolCalls    = "aisdk.tool.calls"
)
