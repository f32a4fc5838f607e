// Package ratelimit throttles inbound webhook traffic per client key.
//
// Two backends exist: a local token bucket per key built on
// golang.org/x/time/rate, and a Redis sliding window shared by every gateway
// replica. New picks the backend from Config.Type.
package ratelimit
