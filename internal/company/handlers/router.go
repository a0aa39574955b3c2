package handlers

import (
	"io"
	"net/http"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/httpresponse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// NewRouter mounts the company routes. The optional middlewares guard every
// route except the CORS preflight ones.
func NewRouter(h *CompanyHandler, logger *zap.Logger, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(h.recoverer)

	r.NotFound(h.serve(func(*http.Request) httpresponse.Response {
		return httpresponse.NotFound("", nil)
	}))
	r.MethodNotAllowed(h.serve(func(*http.Request) httpresponse.Response {
		return httpresponse.MethodNotAllowed("", nil)
	}))

	preflight := h.serve(func(*http.Request) httpresponse.Response {
		return httpresponse.Preflight()
	})

	r.Route("/companies", func(r chi.Router) {
		r.Options("/", preflight)
		r.Options("/{id}", preflight)

		r.Group(func(r chi.Router) {
			r.Use(middlewares...)

			r.Post("/", h.serve(func(req *http.Request) httpresponse.Response {
				body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
				if err != nil {
					return h.badRequest(err)
				}
				return h.CreateCompany(req.Context(), body)
			}))
			r.Get("/", h.serve(func(req *http.Request) httpresponse.Response {
				return h.ListCompanies(req.Context(), req.URL.Query())
			}))
			r.Get("/{id}", h.serve(func(req *http.Request) httpresponse.Response {
				return h.GetCompany(req.Context(), chi.URLParam(req, "id"))
			}))
			r.Delete("/{id}", h.serve(func(req *http.Request) httpresponse.Response {
				return h.DeleteCompany(req.Context(), chi.URLParam(req, "id"))
			}))
		})
	})

	return r
}

func (h *CompanyHandler) serve(fn func(*http.Request) httpresponse.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := httpresponse.Write(w, fn(r)); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
	}
}
