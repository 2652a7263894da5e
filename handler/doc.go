// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value R that Wrap fills
// through Bind functions, and returns a Response:
//
//	type createReq struct{ Name string `json:"name"` }
//
//	h := handler.Wrap(func(ctx handler.Context, req createReq) handler.Response {
//		if req.Name == "" {
//			return handler.Error(handler.NewHTTPError(http.StatusBadRequest, "name is required", nil))
//		}
//		return handler.RawJSON([]byte(`{"ok":true}`))
//	},
//		handler.WithBinders[handler.Context, createReq](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, createReq](handler.NewErrorHandler(log)),
//	)
//
// Errors are rendered as {"message": "..."}. Only HTTPError messages are
// shown to clients; every other error becomes a generic 500 and is logged.
package handler
