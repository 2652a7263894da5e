// Package binder decodes HTTP request bodies for handler.Wrap.
//
// JSON requires an application/json content type, enforces a size limit and
// rejects trailing data. Decoding into fields typed `any` preserves the raw
// JSON kind so callers can tell a missing field from one of the wrong type.
package binder
