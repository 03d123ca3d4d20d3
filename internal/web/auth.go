package web

import (
	"net/http"
	"strings"

	"medadmin/m/domain"
	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/auth"
)

type loginView struct {
	Username string
	Actor    domain.EntityType
	Next     string
	Error    string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if visitFrom(r).session.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", "Sign in", loginView{
		Actor: domain.EntityStudent,
		Next:  localPath(r.URL.Query().Get("next"), ""),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	actor, ok := domain.ParseEntityType(r.PostForm.Get("actor"))
	if !ok {
		actor = domain.EntityStudent
	}
	view := loginView{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Actor:    actor,
		Next:     localPath(r.PostForm.Get("next"), ""),
	}

	v := visitFrom(r)
	if _, err := auth.Login(r.Context(), v.api, v.session, view.Username, r.PostForm.Get("password"), actor); err != nil {
		h.log.Info("login rejected", "school", v.school, "actor", actor, "err", err)
		view.Error = apiclient.Describe(err, "Login failed. Please try again.")
		h.render(w, r, http.StatusUnauthorized, "login.html", "Sign in", view)
		return
	}
	http.Redirect(w, r, localPath(view.Next, "/"), http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := visitFrom(r).session.Clear(r.Context()); err != nil {
		h.log.Error("failed to clear session", "err", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
