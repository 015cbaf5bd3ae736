package linking

// Log messages
const (
	LogMsgLinkRejected = "Link attempt rejected"
	LogMsgLinkFailed   = "Link attempt failed"
	LogMsgLinked       = "Account linked to Discord"
)

// MaxExternalIDLength bounds the Discord id accepted from callers
const MaxExternalIDLength = 64
