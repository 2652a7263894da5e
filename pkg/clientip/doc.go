// Package clientip determines the originating client address of a request.
//
// The address is the identity the gateway rate limits on. Behind a trusted
// reverse proxy enable WithTrustProxy and the following headers are checked
// in order before falling back to the TCP peer address:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid entry)
//  4. X-Real-IP
//
// Without a trusted proxy these headers can be forged by the client, so the
// default Resolver ignores them.
//
// Usage:
//
//	res := clientip.NewResolver(clientip.WithTrustProxy(cfg.TrustProxyHeaders))
//	r.Use(res.Middleware)
//	ip := clientip.GetIPFromContext(r.Context())
package clientip
