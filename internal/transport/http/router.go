package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter builds the storefront router. allowedOrigins feeds CORS; empty allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/quizzes", h.ListQuizzes)
		r.Route("/quizzes/{quizID}", func(r chi.Router) {
			r.Get("/", h.GetQuiz)
			r.Post("/checkout", h.Checkout)
			r.Get("/take", h.TakeQuiz)
			r.Post("/submissions/{submissionID}/answers", h.SubmitAnswers)
		})
		r.Post("/payments/callback", h.PaymentCallback)
		r.Get("/referrals/{submissionID}/coupons", h.ReferralCoupons)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)
			r.Get("/dashboard", h.Dashboard)
			r.Post("/quizzes", h.UploadQuiz)
			r.Delete("/quizzes/{quizID}", h.DeleteQuiz)
			r.Get("/quizzes/{quizID}/submissions", h.Submissions)
			r.Get("/quizzes/{quizID}/submissions.csv", h.ExportSubmissions)
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Mobile"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)
}
