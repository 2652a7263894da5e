package handler

import "net/http"

const contentTypeJSON = "application/json; charset=utf-8"

type rawJSON []byte

func (b rawJSON) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b)
	return err
}

// RawJSON writes body unchanged with status 200. body must already be
// valid JSON, such as a cached lookup result.
func RawJSON(body []byte) Response {
	if body == nil {
		body = []byte("null")
	}
	return rawJSON(body)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
}
