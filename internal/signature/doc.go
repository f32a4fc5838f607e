// Package signature authenticates Twilio webhook callbacks.
//
// Twilio signs each callback with HMAC-SHA1 keyed by the account auth token.
// The signed string is the full request URL followed by every POST parameter,
// sorted by name in byte order, appended as name then value with no
// separators. The Base64 encoding of the digest travels in the
// X-Twilio-Signature header.
//
// Some senders cannot set headers, so the Extractor also accepts the token
// from a top-level JSON property or a form field named "signature", "key" or
// the configured header name (case-insensitive). The Gate chains extraction and
// verification in front of a handler:
//
//	gate := signature.NewGate(signature.GateConfig{
//		Secret: os.Getenv("TWILIO_AUTH_TOKEN"),
//	}, logger)
//	router.Handle("/webhook/twilio/save/order", gate.Middleware(handler))
//
// Rejections carry one of three reason codes: missing_signature,
// invalid_signature and misconfigured.
package signature
