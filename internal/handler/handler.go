// Package handler exposes the cutting-stock optimizer over HTTP: form
// submission, part-list file upload, and retrieval of stored results.
package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/piwi3910/beamcut/internal/config"
	"github.com/piwi3910/beamcut/internal/project"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      *project.Store
	translator ut.Translator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store *project.Store) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		translator: trans,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)

	h.Mux.Route("/cutting", func(r chi.Router) {
		r.Post("/solve", h.SolveCutting)
		r.Post("/upload", h.UploadCutting)
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.ListRequests)
			r.Get("/{id}", h.GetRequest)
		})
	})
}
