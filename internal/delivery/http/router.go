package http

import (
	"net/http"

	"awn-booking/internal/delivery/http/handler"
	"awn-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	Therapist      *handler.TherapistHandler
	Booking        *handler.BookingHandler
	TreatmentPlan  *handler.TreatmentPlanHandler
	Rating         *handler.RatingHandler
	Favorite       *handler.FavoriteHandler
	MedicalHistory *handler.MedicalHistoryHandler
	AuditLog       *handler.AuditLogHandler
	Patient        *handler.PatientHandler
	Contact        *handler.ContactHandler
}

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	CORS      *middleware.CORSMiddleware
	RateLimit *middleware.RateLimitMiddleware
	Metrics   *middleware.MetricsMiddleware
	Recovery  *middleware.RecoveryMiddleware
}

type Router struct {
	router      *mux.Router
	handlers    Handlers
	middlewares Middlewares
	gatherer    prometheus.Gatherer
}

func NewRouter(handlers Handlers, middlewares Middlewares, gatherer prometheus.Gatherer) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{
		router:      mux.NewRouter(),
		handlers:    handlers,
		middlewares: middlewares,
		gatherer:    gatherer,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered before route matching.
func (r *Router) Setup() http.Handler {
	h := r.handlers
	authn := r.middlewares.Auth.Authenticate
	optional := r.middlewares.Auth.OptionalAuthenticate
	patientOnly := func(f http.HandlerFunc) http.Handler {
		return authn(middleware.RequirePatient(f))
	}

	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(r.middlewares.RateLimit.Handle)

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", h.Auth.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/therapist", h.Auth.RegisterTherapist).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	auth.Handle("/logout", authn(http.HandlerFunc(h.Auth.Logout))).Methods(http.MethodPost)
	auth.Handle("/me", authn(http.HandlerFunc(h.Auth.GetCurrentUser))).Methods(http.MethodGet)
	auth.Handle("/verify-otp", authn(http.HandlerFunc(h.Auth.VerifyOTP))).Methods(http.MethodPost)
	auth.Handle("/resend-otp", authn(http.HandlerFunc(h.Auth.ResendOTP))).Methods(http.MethodPost)

	// Patient profile
	api.Handle("/patients/profile", patientOnly(h.Patient.GetProfile)).Methods(http.MethodGet)
	api.Handle("/patients/profile", patientOnly(h.Patient.UpdateProfile)).Methods(http.MethodPut)

	// Contact form (public, signed-in callers are recorded)
	api.Handle("/contacts", optional(http.HandlerFunc(h.Contact.SubmitContact))).Methods(http.MethodPost)

	// Therapist directory (public)
	api.HandleFunc("/therapists", h.Therapist.GetTherapists).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{id}", h.Therapist.GetTherapist).Methods(http.MethodGet)

	// Bookings: static paths are registered before /bookings/{id}
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Handle("", optional(http.HandlerFunc(h.Booking.CreateBooking))).Methods(http.MethodPost)
	bookings.HandleFunc("/availability", h.Booking.GetAvailability).Methods(http.MethodGet)
	bookings.HandleFunc("/patient/{email}", h.Booking.GetPatientBookings).Methods(http.MethodGet)
	bookings.HandleFunc("/therapist/{id}", h.Booking.GetTherapistBookings).Methods(http.MethodGet)
	bookings.Handle("/me", patientOnly(h.Booking.GetMyBookings)).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", h.Booking.GetBooking).Methods(http.MethodGet)
	bookings.Handle("/{id}/confirm", optional(http.HandlerFunc(h.Booking.ConfirmBooking))).Methods(http.MethodPut)
	bookings.Handle("/{id}/cancel", optional(http.HandlerFunc(h.Booking.CancelBooking))).Methods(http.MethodPut)
	bookings.Handle("/{id}/reschedule", optional(http.HandlerFunc(h.Booking.RescheduleBooking))).Methods(http.MethodPut)
	bookings.Handle("/{id}/complete", authn(middleware.RequireTherapist(http.HandlerFunc(h.Booking.CompleteBooking)))).Methods(http.MethodPut)

	// Treatment plans (protected)
	plans := api.PathPrefix("/treatment-plans").Subrouter()
	plans.Use(authn)
	plans.Handle("", middleware.RequireTherapist(http.HandlerFunc(h.TreatmentPlan.CreatePlan))).Methods(http.MethodPost)
	plans.HandleFunc("/patient/{id}", h.TreatmentPlan.GetPatientPlans).Methods(http.MethodGet)
	plans.HandleFunc("/therapist/{id}", h.TreatmentPlan.GetTherapistPlans).Methods(http.MethodGet)
	plans.HandleFunc("/{id}", h.TreatmentPlan.GetPlan).Methods(http.MethodGet)
	plans.Handle("/{id}/accept", middleware.RequirePatient(http.HandlerFunc(h.TreatmentPlan.AcceptPlan))).Methods(http.MethodPut)
	plans.Handle("/{id}/decline", middleware.RequirePatient(http.HandlerFunc(h.TreatmentPlan.DeclinePlan))).Methods(http.MethodPut)
	plans.Handle("/{id}/progress", middleware.RequireTherapist(http.HandlerFunc(h.TreatmentPlan.RecordProgress))).Methods(http.MethodPut)
	plans.Handle("/{id}/complete", middleware.RequireTherapist(http.HandlerFunc(h.TreatmentPlan.CompletePlan))).Methods(http.MethodPut)

	// Ratings
	api.Handle("/ratings", patientOnly(h.Rating.CreateRating)).Methods(http.MethodPost)
	api.HandleFunc("/ratings/therapist/{id}", h.Rating.GetTherapistRatings).Methods(http.MethodGet)

	// Favorites and medical history (patient only)
	api.Handle("/favorites", patientOnly(h.Favorite.ToggleFavorite)).Methods(http.MethodPost)
	api.Handle("/favorites", patientOnly(h.Favorite.GetFavorites)).Methods(http.MethodGet)
	api.Handle("/medical-history", patientOnly(h.MedicalHistory.GetMedicalHistory)).Methods(http.MethodGet)
	api.Handle("/medical-history", patientOnly(h.MedicalHistory.SaveMedicalHistory)).Methods(http.MethodPut)
	api.Handle("/medical-history", patientOnly(h.MedicalHistory.DeleteMedicalHistory)).Methods(http.MethodDelete)
	api.Handle("/medical-history/warnings", patientOnly(h.MedicalHistory.GetWarnings)).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authn)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/contacts", h.Contact.GetContacts).Methods(http.MethodGet)

	r.router.Use(r.middlewares.Recovery.Handle)
	r.router.Use(r.middlewares.Metrics.Handle)

	return r.middlewares.CORS.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
