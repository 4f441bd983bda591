package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/auth"
	"github.com/nicolas1xx/psicoapp/internal/identity"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if claims := s.sessions.Current(r); claims != nil {
		http.Redirect(w, r, dashboardFor(claims.Role), http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", nil)
}

// handleLogin checks the fixed administrator credentials before the identity
// service. A professional account without a matching profile cannot log in;
// that pairing is the provisioning contract.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("senha")

	if email == s.admin.Email && password == s.admin.Password {
		if err := s.sessions.Issue(w, "admin", "Administrador", auth.RoleAdmin); err != nil {
			s.logger.Error("session issue failed", "err", err)
			s.redirectWithFlash(w, r, "/login", "Falha ao iniciar a sessão.", flashError)
			return
		}
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	account, err := s.accounts.GetByEmail(r.Context(), email)
	if errors.Is(err, apperr.ErrNotFound) {
		s.redirectWithFlash(w, r, "/login", "E-mail ou senha inválidos.", flashError)
		return
	}
	if err != nil {
		s.logger.Error("account lookup failed", "err", err)
		s.redirectWithFlash(w, r, "/login", "Serviço de autenticação indisponível.", flashError)
		return
	}
	if identity.VerifyPassword(account.PasswordHash, password) != nil {
		s.redirectWithFlash(w, r, "/login", "E-mail ou senha inválidos.", flashError)
		return
	}

	profile, err := s.professionals.Get(r.Context(), account.ID)
	if err != nil {
		s.logger.Warn("account without matching profile", "account_id", account.ID)
		s.redirectWithFlash(w, r, "/login", "Cadastro incompleto. Procure o administrador.", flashError)
		return
	}

	if err := s.sessions.Issue(w, account.ID, profile.Name, auth.RoleProfessional); err != nil {
		s.logger.Error("session issue failed", "err", err)
		s.redirectWithFlash(w, r, "/login", "Falha ao iniciar a sessão.", flashError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	s.redirectWithFlash(w, r, "/", "Sessão encerrada.", flashInfo)
}

func dashboardFor(role string) string {
	if role == auth.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}
