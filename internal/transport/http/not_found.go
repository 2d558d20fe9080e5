package http

import "net/http"

// NotFoundHandler answers unknown routes with the service's JSON error shape,
// naming the path that missed.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.URL.Path)
	})
}
