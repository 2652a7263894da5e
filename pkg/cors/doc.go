// Package cors restricts browser cross-origin access to an allow-list.
//
//	r.Use(cors.Middleware(cfg.CORS.Origins(), cors.WithMaxAge(cfg.CORS.MaxAge)))
package cors
