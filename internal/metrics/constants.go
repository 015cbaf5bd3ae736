package metrics

// Namespace prefixes every PulseHub domain metric
const Namespace = "pulsehub"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Domain metric names, relative to Namespace
const (
	MetricNameLinkAttempts    = "link_attempts_total"
	MetricNameBanEvents       = "ban_events_total"
	MetricNameAuthDecisions   = "auth_decisions_total"
	MetricNameThreatsLogged   = "threats_logged_total"
	MetricNameDiscordCommands = "discord_commands_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Domain metric help text
const (
	HelpTextLinkAttempts    = "Account link attempts by result"
	HelpTextBanEvents       = "Discord ban notifications by outcome"
	HelpTextAuthDecisions   = "Auth gate decisions by state"
	HelpTextThreatsLogged   = "Threat log entries recorded by reason"
	HelpTextDiscordCommands = "Discord slash commands handled by command"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelResult  = "result"
	LabelOutcome = "outcome"
	LabelState   = "state"
	LabelReason  = "reason"
	LabelCommand = "command"
)

// Link attempt results
const (
	LinkResultSuccess       = "success"
	LinkResultInvalidFormat = "invalid_format"
	LinkResultNotFound      = "not_found"
	LinkResultAlreadyLinked = "already_linked"
	LinkResultError         = "error"
)

// HTTPLatencyBuckets covers page renders and bcrypt-bound logins
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// unmatchedRoute labels requests no route pattern matched
const unmatchedRoute = "unmatched"
