// Package web serves the whole site: public booking flow, professional
// dashboard and the admin area. Handlers render templates and redirect
// after POSTs; failures become flash messages, never bare 500 pages.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/nicolas1xx/psicoapp/internal/auth"
	"github.com/nicolas1xx/psicoapp/internal/avatar"
	"github.com/nicolas1xx/psicoapp/internal/booking"
	"github.com/nicolas1xx/psicoapp/internal/identity"
	"github.com/nicolas1xx/psicoapp/internal/model"
	"github.com/nicolas1xx/psicoapp/internal/provision"
)

// ProfessionalDirectory is the read side of the profile repository. List
// never fails; it may serve the fallback dataset.
type ProfessionalDirectory interface {
	List(ctx context.Context) []model.Professional
	Get(ctx context.Context, id string) (model.Professional, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) (string, error)
	Get(ctx context.Context, id string) (model.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]model.Appointment, error)
	History(ctx context.Context, professionalID string) ([]model.Appointment, error)
	Confirm(ctx context.Context, id string) error
	Finalize(ctx context.Context, id, clinicalNote string) error
	Cancel(ctx context.Context, id, reason string) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type AccountReader interface {
	GetByEmail(ctx context.Context, email string) (identity.Account, error)
}

type Provisioner interface {
	Create(ctx context.Context, in provision.Input) (string, error)
	Update(ctx context.Context, id string, in provision.Input) error
	Delete(ctx context.Context, id string) error
}

// AdminCredentials gate the fixed administrator login checked before the
// identity service.
type AdminCredentials struct {
	Email    string
	Password string
}

type Server struct {
	logger        *slog.Logger
	sessions      *auth.Sessions
	professionals ProfessionalDirectory
	appointments  AppointmentStore
	accounts      AccountReader
	provisioner   Provisioner
	pending       booking.Store
	avatars       *avatar.Resolver
	admin         AdminCredentials
	templates     map[string]*template.Template
}

func NewServer(
	logger *slog.Logger,
	sessions *auth.Sessions,
	professionals ProfessionalDirectory,
	appointments AppointmentStore,
	accounts AccountReader,
	provisioner Provisioner,
	pending booking.Store,
	avatars *avatar.Resolver,
	admin AdminCredentials,
) (*Server, error) {
	s := &Server{
		logger:        logger,
		sessions:      sessions,
		professionals: professionals,
		appointments:  appointments,
		accounts:      accounts,
		provisioner:   provisioner,
		pending:       pending,
		avatars:       avatars,
		admin:         admin,
	}
	templates, err := parseTemplates(s.templateFuncs())
	if err != nil {
		return nil, err
	}
	s.templates = templates
	return s, nil
}

// Middleware matches the httpx middleware shape so the booking rate limit
// can be handed in from main without a package cycle.
type Middleware = func(http.Handler) http.Handler

// Register wires every route onto the mux. Guards wrap the role-gated
// handlers here so the route table reads as the authorization table. An
// optional rate limit applies to the public booking POSTs only.
func (s *Server) Register(mux *http.ServeMux, bookingLimit ...Middleware) {
	professional := s.sessions.RequireRole(s.handleDenied, auth.RoleProfessional, auth.RoleAdmin)
	admin := s.sessions.RequireRole(s.handleDenied, auth.RoleAdmin)

	limited := func(h http.HandlerFunc) http.HandlerFunc {
		if len(bookingLimit) == 0 || bookingLimit[0] == nil {
			return h
		}
		return bookingLimit[0](h).ServeHTTP
	}

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /triagem", s.handleScreeningForm)
	mux.HandleFunc("POST /triagem", s.handleScreeningSubmit)
	mux.HandleFunc("GET /psicologos", s.handleListing)
	mux.HandleFunc("POST /psicologos", s.handleListing)
	mux.HandleFunc("GET /agendamento/{id}", s.handleBookingForm)
	mux.HandleFunc("POST /agendamento/{id}", limited(s.handleBookingSubmit))
	mux.HandleFunc("GET /pagamento", s.handlePaymentPage)
	mux.HandleFunc("POST /pagamento", limited(s.handlePaymentSubmit))
	mux.HandleFunc("GET /success", s.handleSuccess)
	mux.HandleFunc("GET /ajuda", s.handleHelp)
	mux.HandleFunc("GET /sessao/{id}", s.handleSessionRoom)

	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.handleLogout)

	mux.HandleFunc("GET /dashboard", professional(s.handleDashboard))
	mux.HandleFunc("POST /psicologo/consulta/{id}/finalizar", professional(s.handleFinalize))
	mux.HandleFunc("POST /psicologo/consulta/{id}/cancelar", professional(s.handleCancel))
	mux.HandleFunc("POST /psicologo/agendamento/confirmar/{id}", professional(s.handleConfirm))
	mux.HandleFunc("POST /psicologo/agendamento/excluir/{id}", professional(s.handleDeleteAppointment))
	mux.HandleFunc("POST /dashboard/agendamento/{id}/{action}", professional(s.handleGenericAction))
	mux.HandleFunc("GET /psicologo/historico", professional(s.handleHistory))

	mux.HandleFunc("GET /admin/dashboard", admin(s.handleAdminDashboard))
	mux.HandleFunc("GET /admin/cadastro_psicologo", admin(s.handleAdminCreateForm))
	mux.HandleFunc("POST /admin/cadastro_psicologo", admin(s.handleAdminCreate))
	mux.HandleFunc("GET /admin/psicologo/{id}/editar", admin(s.handleAdminEditForm))
	mux.HandleFunc("POST /admin/psicologo/{id}/editar", admin(s.handleAdminEdit))
	mux.HandleFunc("POST /admin/psicologo/{id}/excluir", admin(s.handleAdminDelete))
}

func (s *Server) handleDenied(w http.ResponseWriter, r *http.Request) {
	setFlash(w, "Faça login para acessar esta página.", flashError)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// redirectWithFlash is the common POST outcome.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, msg, category string) {
	setFlash(w, msg, category)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
