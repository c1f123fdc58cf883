package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/rotisserie/eris"
)

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	renderError(w, r, http.StatusBadRequest, msg)
}

func errBadParam(name, value string) error {
	return eris.Errorf("invalid %s parameter: %s", name, value)
}
