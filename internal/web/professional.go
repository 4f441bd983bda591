package web

import (
	"net/http"
	"strings"

	"github.com/nicolas1xx/psicoapp/internal/auth"
	"github.com/nicolas1xx/psicoapp/internal/model"
	"github.com/nicolas1xx/psicoapp/internal/storage"
)

const defaultCancelReason = "Cancelado pelo psicólogo sem motivo especificado."

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := s.sessions.Current(r)
	appts, err := s.appointments.ListByProfessional(r.Context(), claims.Sub)
	if err != nil {
		s.logger.Error("dashboard listing failed", "professional_id", claims.Sub, "err", err)
		setFlash(w, "Não foi possível carregar sua agenda.", flashError)
		appts = nil
	}
	s.render(w, r, "dashboard.html", map[string]any{
		"Appointments": appts,
		"Name":         claims.Name,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims := s.sessions.Current(r)
	appts, err := s.appointments.History(r.Context(), claims.Sub)
	if err != nil {
		s.logger.Error("history listing failed", "professional_id", claims.Sub, "err", err)
		setFlash(w, "Não foi possível carregar o histórico.", flashError)
		appts = nil
	}
	s.render(w, r, "historico.html", map[string]any{
		"Appointments": appts,
		"Name":         claims.Name,
	})
}

// handleFinalize marks the session held. The clinical note is mandatory.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	appt, ok := s.ownedAppointment(w, r)
	if !ok {
		return
	}
	if appt.Status != model.StatusConfirmed {
		s.redirectWithFlash(w, r, "/dashboard", "Apenas consultas confirmadas podem ser finalizadas.", flashError)
		return
	}
	note := strings.TrimSpace(r.FormValue("prontuario"))
	if note == "" {
		s.redirectWithFlash(w, r, "/dashboard", "O prontuário é obrigatório para finalizar a consulta.", flashError)
		return
	}
	if err := s.appointments.Finalize(r.Context(), appt.ID, note); err != nil {
		s.failTransition(w, r, "finalizar", err)
		return
	}
	s.redirectWithFlash(w, r, "/dashboard", "Consulta finalizada com sucesso.", flashSuccess)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	appt, ok := s.ownedAppointment(w, r)
	if !ok {
		return
	}
	if model.IsTerminal(appt.Status) {
		s.redirectWithFlash(w, r, "/dashboard", "Esta consulta já foi encerrada.", flashError)
		return
	}
	reason := strings.TrimSpace(r.FormValue("motivo"))
	if reason == "" {
		reason = defaultCancelReason
	}
	if err := s.appointments.Cancel(r.Context(), appt.ID, reason); err != nil {
		s.failTransition(w, r, "cancelar", err)
		return
	}
	s.redirectWithFlash(w, r, "/dashboard", "Consulta cancelada.", flashSuccess)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	appt, ok := s.ownedAppointment(w, r)
	if !ok {
		return
	}
	if appt.Status != model.StatusPending {
		s.redirectWithFlash(w, r, "/dashboard", "Apenas agendamentos pendentes podem ser confirmados.", flashError)
		return
	}
	if err := s.appointments.Confirm(r.Context(), appt.ID); err != nil {
		s.failTransition(w, r, "confirmar", err)
		return
	}
	s.redirectWithFlash(w, r, "/dashboard", "Agendamento confirmado.", flashSuccess)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	appt, ok := s.ownedAppointment(w, r)
	if !ok {
		return
	}
	if err := s.appointments.Delete(r.Context(), appt.ID); err != nil {
		s.failTransition(w, r, "excluir", err)
		return
	}
	s.redirectWithFlash(w, r, "/dashboard", "Agendamento excluído.", flashSuccess)
}

// handleGenericAction backs the dashboard's concluir/cancelar buttons.
func (s *Server) handleGenericAction(w http.ResponseWriter, r *http.Request) {
	appt, ok := s.ownedAppointment(w, r)
	if !ok {
		return
	}
	switch r.PathValue("action") {
	case "concluir":
		if appt.Status != model.StatusConfirmed {
			s.redirectWithFlash(w, r, "/dashboard", "Apenas consultas confirmadas podem ser concluídas.", flashError)
			return
		}
		if err := s.appointments.SetStatus(r.Context(), appt.ID, model.StatusConcluded); err != nil {
			s.failTransition(w, r, "concluir", err)
			return
		}
		s.redirectWithFlash(w, r, "/dashboard", "Consulta concluída.", flashSuccess)
	case "cancelar":
		if model.IsTerminal(appt.Status) {
			s.redirectWithFlash(w, r, "/dashboard", "Esta consulta já foi encerrada.", flashError)
			return
		}
		if err := s.appointments.Cancel(r.Context(), appt.ID, defaultCancelReason); err != nil {
			s.failTransition(w, r, "cancelar", err)
			return
		}
		s.redirectWithFlash(w, r, "/dashboard", "Consulta cancelada.", flashSuccess)
	default:
		s.redirectWithFlash(w, r, "/dashboard", "Ação desconhecida.", flashError)
	}
}

// ownedAppointment loads the appointment from the path and enforces the
// ownership rule: only the owning professional or an admin may act on it.
func (s *Server) ownedAppointment(w http.ResponseWriter, r *http.Request) (model.Appointment, bool) {
	claims := s.sessions.Current(r)
	appt, err := s.appointments.Get(r.Context(), r.PathValue("id"))
	if storage.IsNotFound(err) {
		s.redirectWithFlash(w, r, "/dashboard", "Agendamento não encontrado.", flashError)
		return model.Appointment{}, false
	}
	if err != nil {
		s.logger.Error("appointment lookup failed", "err", err)
		s.redirectWithFlash(w, r, "/dashboard", "Serviço indisponível. Tente novamente.", flashError)
		return model.Appointment{}, false
	}
	if claims.Role != auth.RoleAdmin && claims.Sub != appt.ProfessionalID {
		s.redirectWithFlash(w, r, "/dashboard", "Acesso negado: esta consulta pertence a outro profissional.", flashError)
		return model.Appointment{}, false
	}
	return appt, true
}

func (s *Server) failTransition(w http.ResponseWriter, r *http.Request, action string, err error) {
	s.logger.Error("appointment transition failed", "action", action, "err", err)
	s.redirectWithFlash(w, r, "/dashboard", "Não foi possível "+action+" a consulta. Tente novamente.", flashError)
}
