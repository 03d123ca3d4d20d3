package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/auth"
	"medadmin/m/internal/localdata"
	"medadmin/m/internal/storage"
)

type ctxKey string

const ctxVisit ctxKey = "visit"

// cookieName holds the id of the browser's storage namespace.
const cookieName = "console_sid"

// Options configures a Handler.
type Options struct {
	Secret       string
	SchoolCode   string
	TenantSuffix string
	Metrics      bool
	// Seed replaces the built-in mock ledger for browsers that have none.
	Seed *localdata.Dataset
	Now  func() time.Time
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db   *sqlx.DB
	api  *apiclient.Client
	opts Options
	log  *slog.Logger
	tmpl templates
}

// New constructs a Handler. api is the unscoped client; each request gets
// a copy bound to its school code and session.
func New(db *sqlx.DB, api *apiclient.Client, opts Options, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{db: db, api: api, opts: opts, log: log, tmpl: parseTemplates()}
}

// Router wires up the console.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	if h.opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(h.visitMiddleware)

		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(pr chi.Router) {
			pr.Use(h.requireSession)

			pr.Get("/", h.dashboard)

			pr.Route("/stock", func(r chi.Router) {
				r.Get("/", h.stockList)
				r.Get("/add", h.stockForm)
				r.Post("/add", h.saveStock)
				r.Get("/edit/{id}", h.stockForm)
				r.Post("/edit/{id}", h.saveStock)
				r.Get("/delete/{id}", h.confirmStockDelete)
				r.Post("/delete/{id}", h.deleteStock)
			})

			pr.Route("/purchase-log", func(r chi.Router) {
				r.Get("/", h.purchaseLogList)
				r.Get("/add", h.purchaseLogForm)
				r.Post("/add", h.savePurchaseLog)
				r.Get("/edit/{id}", h.purchaseLogForm)
				r.Post("/edit/{id}", h.savePurchaseLog)
				r.Get("/delete/{id}", h.confirmPurchaseLogDelete)
				r.Post("/delete/{id}", h.deletePurchaseLog)
			})

			pr.Get("/issue-log", h.issueLogList)

			pr.Route("/medical", func(r chi.Router) {
				r.Get("/", h.medicalDashboard)

				r.Route("/items", func(r chi.Router) {
					r.Get("/", h.itemList)
					r.Get("/add", h.itemForm)
					r.Post("/add", h.saveItem)
					r.Get("/{id}/edit", h.itemForm)
					r.Post("/{id}/edit", h.saveItem)
					r.Get("/{id}/delete", h.confirmItemDelete)
					r.Post("/{id}/delete", h.deleteItem)
				})

				r.Route("/purchases", func(r chi.Router) {
					r.Get("/", h.purchaseList)
					r.Get("/export", h.exportPurchases)
					r.Get("/add", h.purchaseForm)
					r.Post("/add", h.savePurchase)
					r.Get("/{id}/edit", h.purchaseForm)
					r.Post("/{id}/edit", h.savePurchase)
					r.Get("/{id}/delete", h.confirmPurchaseDelete)
					r.Post("/{id}/delete", h.deletePurchase)
				})

				r.Route("/issues", func(r chi.Router) {
					r.Get("/", h.issueList)
					r.Get("/export", h.exportIssues)
					r.Get("/add", h.issueForm)
					r.Post("/add", h.saveIssue)
					r.Get("/{id}/edit", h.issueForm)
					r.Post("/{id}/edit", h.saveIssue)
					r.Get("/{id}/delete", h.confirmIssueDelete)
					r.Post("/{id}/delete", h.deleteIssue)
				})
			})

			pr.Route("/search", func(r chi.Router) {
				r.Get("/students", h.searchStudents)
				r.Post("/students/choose", h.chooseStudent)
				r.Get("/employees", h.searchEmployees)
				r.Post("/employees/choose", h.chooseEmployee)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// visit is the per-request view of one browser: its storage namespace, the
// session loaded from it and an API client bound to both.
type visit struct {
	store   storage.Storage
	session *auth.Session
	api     *apiclient.Client
	school  string
}

func visitFrom(r *http.Request) *visit {
	v, _ := r.Context().Value(ctxVisit).(*visit)
	return v
}

func (h *Handler) visitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := storage.NewLocal(h.db, browserID(w, r))
		sess := auth.NewSession(store, storage.Seal(store, h.opts.Secret), h.log)
		if err := sess.Load(r.Context()); err != nil {
			h.log.Error("failed to load session", "err", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		school := apiclient.SchoolCode(r.Host, h.opts.TenantSuffix, h.opts.SchoolCode)
		v := &visit{store: store, session: sess, api: h.api.For(school, sess), school: school}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxVisit, v)))
	})
}

// browserID returns the namespace cookie, issuing a new one when it is
// missing or malformed.
func browserID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !visitFrom(r).session.Authenticated() {
			toLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func toLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// unauthorized sends the browser to the login page when err carries a 401.
// The session has already been cleared by the API client.
func unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !isUnauthorized(err) {
		return false
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

func isUnauthorized(err error) bool { return errors.Is(err, apiclient.ErrUnauthorized) }

// localPath accepts only same-site paths for post-action redirects.
func localPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) (*localdata.Store, bool) {
	store, err := localdata.Open(r.Context(), visitFrom(r).store, h.opts.Seed)
	if err != nil {
		h.log.Error("failed to open ledger", "err", err)
		http.Error(w, "unable to read local data", http.StatusInternalServerError)
		return nil, false
	}
	return store, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}
