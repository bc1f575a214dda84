package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/domain"

	"github.com/go-chi/chi/v5"
)

const (
	maxUploadBytes = 10 << 20
	mobileHeader   = "X-Mobile"
)

// Handler serves the storefront and admin API.
type Handler struct {
	quizzes  *app.QuizService
	checkout *app.CheckoutService
	auth     *AdminAuth
}

func NewHandler(quizzes *app.QuizService, checkout *app.CheckoutService, auth *AdminAuth) *Handler {
	return &Handler{quizzes: quizzes, checkout: checkout, auth: auth}
}

type catalogue struct {
	Mode    domain.PaymentMode  `json:"payment_mode"`
	Quizzes []domain.PublicQuiz `json:"quizzes"`
}

// paymentStatus is the callback reply; it never carries the student's details.
type paymentStatus struct {
	Status       string `json:"status"`
	QuizID       string `json:"quiz_id"`
	SubmissionID string `json:"submission_id"`
}

type answersBody struct {
	Answers []string `json:"answers"`
}

type loginBody struct {
	Password string `json:"password"`
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogue{Mode: h.checkout.PaymentMode(), Quizzes: quizzes})
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.PublicView(quiz, false))
}

// Checkout accepts a JSON or form body; the referral code may also come as ?ref=.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req app.CheckoutRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, domain.Validationf("invalid checkout body: %v", err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, domain.Validationf("invalid checkout form: %v", err))
			return
		}
		req = app.CheckoutRequest{
			Name:      r.PostForm.Get("name"),
			Mobile:    r.PostForm.Get("mobile"),
			Institute: r.PostForm.Get("institute"),
			Address:   r.PostForm.Get("address"),
			Referral:  r.PostForm.Get("ref"),
			CouponID:  r.PostForm.Get("coupon"),
		}
	}
	req.QuizID = chi.URLParam(r, "quizID")
	if req.Referral == "" {
		req.Referral = r.URL.Query().Get("ref")
	}

	res, err := h.checkout.StartCheckout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// PaymentCallback confirms a payment. The gateway posts form fields, scripts may post JSON.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var c domain.PaymentConfirmation
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, r, domain.Validationf("invalid callback body: %v", err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, domain.Validationf("invalid callback form: %v", err))
			return
		}
		c = domain.PaymentConfirmation{
			SubmissionID: r.Form.Get("submission_id"),
			OrderID:      r.Form.Get("razorpay_order_id"),
			PaymentID:    r.Form.Get("razorpay_payment_id"),
			Signature:    r.Form.Get("razorpay_signature"),
		}
	}
	if c.SubmissionID == "" {
		writeError(w, r, domain.Validationf("submission_id is required"))
		return
	}

	sub, err := h.checkout.ConfirmPayment(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentStatus{
		Status:       string(sub.PaymentStatus),
		QuizID:       sub.QuizID,
		SubmissionID: sub.ID,
	})
}

func (h *Handler) TakeQuiz(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sid")
	if sid == "" {
		writeError(w, r, domain.Validationf("sid is required"))
		return
	}
	view, err := h.checkout.TakeQuiz(r.Context(), chi.URLParam(r, "quizID"), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var body answersBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, domain.Validationf("invalid answers body: %v", err))
		return
	}
	res, err := h.checkout.SubmitAnswers(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "submissionID"), body.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ReferralCoupons lists a referrer's coupons; the referrer's mobile comes in the X-Mobile header.
func (h *Handler) ReferralCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.checkout.CouponsFor(r.Context(), chi.URLParam(r, "submissionID"), r.Header.Get(mobileHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, r, domain.Validationf("invalid login body: %v", err))
			return
		}
	} else {
		body.Password = r.PostFormValue("password")
	}

	token, expires, err := h.auth.Login(body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/admin",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged in"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.quizzes.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UploadQuiz takes a multipart form with title, price and the question CSV as file.
func (h *Handler) UploadQuiz(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, domain.Validationf("invalid upload: %v", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.Validationf("csv file is required"))
		return
	}
	defer file.Close()

	quiz, err := h.quizzes.CreateQuiz(r.Context(), app.NewQuiz{
		Title: r.FormValue("title"),
		Price: r.FormValue("price"),
		CSV:   file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.quizzes.SubmissionsFor(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	subs, err := h.quizzes.SubmissionsFor(r.Context(), quizID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "submissions_"+quizID+".csv"))
	if err := app.WriteSubmissionsCSV(w, subs); err != nil {
		// headers are already sent
		fmt.Fprintf(w, "\nexport failed: %v\n", err)
	}
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
