package middleware

// HTTP header names
const (
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderAcceptLanguage = "Accept-Language"
)

// FingerprintLength is the number of hex characters kept from the fingerprint hash
const FingerprintLength = 32
