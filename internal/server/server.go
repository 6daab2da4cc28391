// Package server assembles the builder API, the published form pages
// and the response views into one HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Options configures a Server.
type Options struct {
	Logger           *zap.Logger
	Gateway          *persist.Gateway
	AutosaveInterval time.Duration
	DefaultTheme     string
}

// Server owns the builder session and the handler set around it.
type Server struct {
	log       *zap.Logger
	gateway   *persist.Gateway
	store     *store.Store
	library   *templates.Library
	themes    *render.Themes
	renderers *render.Registry
	pageName  string
	autosave  *store.AutoSaver

	autosaveInterval time.Duration
	defaultTheme     string
}

// New wires the builder store, template library, themes and renderers.
// The previous draft, if any, is restored into the session.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Gateway == nil {
		return nil, errors.New("server: gateway is required")
	}
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = "light"
	}

	library, err := templates.NewLibrary(templates.WithUserSource(opts.Gateway))
	if err != nil {
		return nil, fmt.Errorf("server: load templates: %w", err)
	}

	themes, err := render.BuiltinThemes()
	if err != nil {
		return nil, fmt.Errorf("server: load themes: %w", err)
	}

	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	renderers := render.NewRegistry()
	if err := renderers.Register(html); err != nil {
		return nil, fmt.Errorf("server: register renderer: %w", err)
	}

	s := &Server{
		log:              opts.Logger,
		gateway:          opts.Gateway,
		library:          library,
		themes:           themes,
		renderers:        renderers,
		pageName:         html.Name(),
		autosaveInterval: opts.AutosaveInterval,
		defaultTheme:     opts.DefaultTheme,
	}

	s.store = store.New(
		store.WithDraftWriter(opts.Gateway),
		store.WithSaveErrorHandler(func(err error) {
			s.log.Warn("draft save failed", zap.Error(err))
		}),
	)

	if draft, err := opts.Gateway.LoadDraft(); err == nil && len(draft) > 0 {
		s.store.LoadTemplate(model.Template{Fields: draft})
	} else if err != nil && !errors.Is(err, persist.ErrNoDraft) {
		s.log.Warn("draft restore failed", zap.Error(err))
	}

	return s, nil
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/builder", func(r chi.Router) {
		r.Get("/", s.handleBuilderState)
		r.Post("/fields", s.handleAddField)
		r.Patch("/fields/{fieldID}", s.handleUpdateField)
		r.Post("/reorder", s.handleReorder)
		r.Post("/step", s.handleSetStep)
		r.Post("/select", s.handleSelectField)
		r.Post("/template", s.handleLoadTemplate)
		r.Post("/undo", s.handleUndo)
		r.Post("/save", s.handleSaveDraft)
	})

	r.Route("/api/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Post("/", s.handlePublishForm)
		r.Get("/{formID}", s.handleGetForm)
		r.Delete("/{formID}", s.handleDeleteForm)
		r.Get("/{formID}/responses", s.handleResponsesJSON)
		r.Post("/{formID}/responses", s.handleSubmitJSON)
		r.Get("/{formID}/openapi", s.handleExportOpenAPI)
	})

	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.handleListTemplates)
		r.Post("/", s.handleSaveTemplate)
	})

	r.Route("/api/theme", func(r chi.Router) {
		r.Get("/", s.handleGetTheme)
		r.Put("/", s.handleSetTheme)
	})

	r.Get("/form/{formID}", s.handleFormPage)
	r.Post("/form/{formID}", s.handleFormSubmit)
	r.Get("/responses/{formID}", s.handleResponsesPage)

	return r
}

// Run starts the server and the autosave job, shutting both down when
// the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if s.autosaveInterval > 0 {
		saver, err := store.StartAutoSave(s.store, s.autosaveInterval)
		if err != nil {
			return fmt.Errorf("server: start autosave: %w", err)
		}
		s.autosave = saver
		defer s.autosave.Stop()
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
		}
	}()

	s.log.Info("starting server", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
