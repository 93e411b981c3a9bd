// Package clientip extracts the client address from an HTTP request.
//
// Headers are checked in order and the first valid address wins:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For, leftmost entry
//  4. X-Real-IP
//  5. RemoteAddr
//
// Addresses are parsed and normalized; malformed values and the unspecified
// address are skipped. When nothing valid is found GetIP returns RemoteAddr
// unchanged.
//
//	ip := clientip.GetIP(r)
//
// Only trust these headers when a proxy you control sets them.
package clientip
