package handlers

import (
	"net/http"
	"time"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/httpresponse"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("userAgent", r.UserAgent()),
			)
		})
	}
}

// recoverer turns a panic into a 500 carrying the default response headers.
func (h *CompanyHandler) recoverer(next http.Handler) http.Handler {
	internalError := h.serve(func(*http.Request) httpresponse.Response {
		return httpresponse.InternalServerError("", nil)
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			h.logger.Error("Recovered from panic",
				zap.Any("panic", rvr),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.Stack("stack"),
			)
			if r.Header.Get("Connection") != "Upgrade" {
				internalError(w, r)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
