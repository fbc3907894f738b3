package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/render"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	current := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"pages":  len(current.order),
	})
}

// index renders ?page= or redirects to the first page the caller may open.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if id := strings.TrimSpace(r.URL.Query().Get("page")); id != "" {
		s.render(w, r, id)
		return
	}

	current := s.snapshot()
	for _, id := range current.order {
		reg, ok := current.menu.Page(id)
		if ok && s.auth.Can(r, reg.Capability) {
			page := current.pages[id]
			http.Redirect(w, r, page.TabURL(page.ResolveCurrentTab("")), http.StatusFound)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) show(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, chi.URLParam(r, "page"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, id string) {
	logger := zerolog.Ctx(r.Context())

	reg, ok := s.snapshot().menu.Page(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !s.auth.Can(r, reg.Capability) {
		http.Error(w, "Sorry, you are not allowed to access this page.", http.StatusForbidden)
		return
	}

	var buf bytes.Buffer
	err := reg.Render(r.Context(), &buf, host.PageRequest{
		Tab:     r.URL.Query().Get("tab"),
		Locale:  requestLocale(r),
		Referer: refererOf(r.URL),
	})
	if err != nil {
		logger.Error().Err(err).Str("page", id).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	namespace := strings.TrimSpace(r.PostForm.Get(render.FieldOptionPage))
	if namespace == "" || r.PostForm.Get(render.FieldAction) != render.ActionUpdate {
		http.Error(w, "missing option_page", http.StatusBadRequest)
		return
	}

	current := s.snapshot()
	pageID, ok := current.owners[namespace]
	if !ok {
		http.Error(w, "options page not found", http.StatusNotFound)
		return
	}
	page := current.pages[pageID]

	if !s.auth.Can(r, page.Capability()) {
		http.Error(w, "Sorry, you are not allowed to manage these options.", http.StatusForbidden)
		return
	}
	if !s.nonces.Verify(render.NonceAction(namespace), r.PostForm.Get(render.FieldNonce)) {
		logger.Warn().Str("page", pageID).Str("namespace", namespace).Msg("nonce verification failed")
		http.Error(w, "The link you followed has expired.", http.StatusForbidden)
		return
	}

	raw := ParseSubmission(r.PostForm, namespace)
	_, err := s.store.Submit(r.Context(), namespace, raw)
	if s.observer != nil {
		s.observer.ObserveSubmission(pageID, namespace, err)
	}
	if err != nil {
		logger.Error().Err(err).Str("page", pageID).Str("namespace", namespace).Msg("save settings failed")
		status := http.StatusInternalServerError
		if errors.Is(err, host.ErrUnknownNamespace) {
			status = http.StatusNotFound
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	s.queueSavedNotice(namespace, requestLocale(r))
	logger.Info().Str("page", pageID).Str("namespace", namespace).Int("fields", len(raw)).Msg("settings saved")

	target := redirectTarget(r.PostForm.Get(render.FieldReferer), page.TabURL(namespace))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// queueSavedNotice adds the success notice unless the sanitizer already
// queued an error for namespace.
func (s *Server) queueSavedNotice(namespace, locale string) {
	queued := s.store.Errors(namespace)
	failed := false
	for _, item := range queued {
		s.store.AddError(namespace, item.Code, item.Message, item.Kind)
		if item.IsError() {
			failed = true
		}
	}
	if failed {
		return
	}
	labels := render.DefaultLabels().Localize(locale, s.translator, nil).WithDefaults()
	s.store.AddError(namespace, "settings_updated", labels.SettingsSaved, render.ErrorKindUpdated)
}

// requestLocale prefers ?lang= and falls back to the first Accept-Language
// tag.
func requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			return tag.String()
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
