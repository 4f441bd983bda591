package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nicolas1xx/psicoapp/internal/booking"
	"github.com/nicolas1xx/psicoapp/internal/model"
	"github.com/nicolas1xx/psicoapp/internal/pricing"
	"github.com/nicolas1xx/psicoapp/internal/screening"
)

// sessionFormLayout matches the value of an HTML datetime-local input. The
// session datetime is parsed exactly once, here at the form boundary.
const sessionFormLayout = "2006-01-02T15:04"

const (
	pendingCookie = "psicoapp_reserva"
	successCookie = "psicoapp_confirmacao"
)

// sessionSlots are the simulated booking hours offered for every day.
var sessionSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", map[string]any{
		"Professionals": s.professionals.List(r.Context()),
	})
}

func (s *Server) handleScreeningForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "triagem.html", nil)
}

// handleScreeningSubmit turns the questionnaire into filter criteria and
// forwards them to the listing as query parameters.
func (s *Server) handleScreeningSubmit(w http.ResponseWriter, r *http.Request) {
	anxiety, _ := strconv.Atoi(r.FormValue("nivel_ansiedade"))
	depression, _ := strconv.Atoi(r.FormValue("nivel_depressao"))
	criteria := screening.Translate(anxiety, depression, r.FormValue("foco_principal"), r.FormValue("genero"))

	q := url.Values{}
	q.Set("genero", criteria.Gender)
	q.Set("foco", criteria.Focus)
	q.Set("linha", criteria.Line)
	http.Redirect(w, r, "/psicologos?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	criteria := model.FilterCriteria{
		Gender: r.FormValue("genero"),
		Focus:  r.FormValue("foco"),
		Line:   r.FormValue("linha"),
	}

	var matched []model.Professional
	for _, p := range s.professionals.List(r.Context()) {
		if matchesCriteria(p, criteria) {
			matched = append(matched, p)
		}
	}
	s.render(w, r, "psicologos_list.html", map[string]any{
		"Professionals": matched,
		"Criteria":      criteria,
	})
}

// matchesCriteria applies the three listing filters. Gender is an equality
// check unless the preference is "Indiferente". The focus is a set of
// space-separated terms; any term matching a tag or the bio keeps the
// professional in. The line only ever matches tags.
func matchesCriteria(p model.Professional, c model.FilterCriteria) bool {
	if g := strings.TrimSpace(c.Gender); g != "" && g != "Indiferente" && p.Gender != g {
		return false
	}
	if focus := strings.Fields(strings.ToLower(c.Focus)); len(focus) > 0 {
		if !anyTermMatches(focus, p.Tags, p.ShortDescription) {
			return false
		}
	}
	if line := strings.ToLower(strings.TrimSpace(c.Line)); line != "" {
		if !tagContains(p.Tags, line) {
			return false
		}
	}
	return true
}

func anyTermMatches(terms []string, tags []string, bio string) bool {
	bio = strings.ToLower(bio)
	for _, term := range terms {
		if tagContains(tags, term) || strings.Contains(bio, term) {
			return true
		}
	}
	return false
}

func tagContains(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (s *Server) handleBookingForm(w http.ResponseWriter, r *http.Request) {
	p, err := s.professionals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.redirectWithFlash(w, r, "/psicologos", "Psicólogo não encontrado.", flashError)
		return
	}
	s.render(w, r, "agendamento.html", map[string]any{
		"Professional": p,
		"Slots":        sessionSlots,
	})
}

// handleBookingSubmit prices the session and parks it as a pending booking.
// Only the opaque booking id travels to the client.
func (s *Server) handleBookingSubmit(w http.ResponseWriter, r *http.Request) {
	p, err := s.professionals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.redirectWithFlash(w, r, "/psicologos", "Psicólogo não encontrado.", flashError)
		return
	}

	sessionAt, err := time.ParseInLocation(sessionFormLayout, r.FormValue("data_hora"), time.Local)
	if err != nil {
		s.redirectWithFlash(w, r, "/agendamento/"+p.ID, "Escolha uma data e horário válidos.", flashError)
		return
	}
	sessionType := r.FormValue("tipo_sessao")
	if sessionType == "" {
		sessionType = "Individual - 50min"
	}

	id, err := s.pending.Put(r.Context(), model.PendingBooking{
		ProfessionalID:   p.ID,
		ProfessionalName: p.Name,
		SessionAt:        sessionAt,
		SessionType:      sessionType,
		Duration:         r.FormValue("duracao"),
		Price:            pricing.Price(p.SessionPrice, sessionType),
	})
	if err != nil {
		s.logger.Error("pending booking store failed", "err", err)
		s.redirectWithFlash(w, r, "/agendamento/"+p.ID, "Não foi possível reservar o horário. Tente novamente.", flashError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     pendingCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(booking.DefaultTTL.Seconds()),
	})
	http.Redirect(w, r, "/pagamento", http.StatusSeeOther)
}

func (s *Server) handlePaymentPage(w http.ResponseWriter, r *http.Request) {
	pb, ok := s.currentPending(w, r)
	if !ok {
		return
	}
	s.render(w, r, "pagamento.html", map[string]any{"Booking": pb})
}

// handlePaymentSubmit confirms the mock payment: the pending booking becomes
// a stored appointment with status Pendente and a generated session link.
func (s *Server) handlePaymentSubmit(w http.ResponseWriter, r *http.Request) {
	pb, ok := s.currentPending(w, r)
	if !ok {
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		s.redirectWithFlash(w, r, "/pagamento", "Informe um e-mail para contato.", flashError)
		return
	}

	appt := model.Appointment{
		ProfessionalID:   pb.ProfessionalID,
		ProfessionalName: pb.ProfessionalName,
		ClientEmail:      email,
		SessionAt:        pb.SessionAt,
		SessionType:      pb.SessionType,
		Duration:         pb.Duration,
		Price:            pb.Price,
		SessionLink:      "https://psicoapp.com/sessao/" + uuid.NewString(),
	}
	id, err := s.appointments.Create(r.Context(), &appt)
	if err != nil {
		s.logger.Error("appointment create failed", "err", err)
		s.redirectWithFlash(w, r, "/pagamento", "Falha ao registrar o agendamento. Tente novamente.", flashError)
		return
	}

	if cookie, err := r.Cookie(pendingCookie); err == nil {
		_ = s.pending.Delete(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: pendingCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{
		Name:     successCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
	http.Redirect(w, r, "/success", http.StatusSeeOther)
}

// currentPending resolves the pending booking behind the cookie, redirecting
// home when there is none or it expired.
func (s *Server) currentPending(w http.ResponseWriter, r *http.Request) (model.PendingBooking, bool) {
	cookie, err := r.Cookie(pendingCookie)
	if err != nil || cookie.Value == "" {
		s.redirectWithFlash(w, r, "/", "Nenhum agendamento em andamento.", flashInfo)
		return model.PendingBooking{}, false
	}
	pb, err := s.pending.Get(r.Context(), cookie.Value)
	if errors.Is(err, booking.ErrExpired) {
		s.redirectWithFlash(w, r, "/", "Sua reserva expirou. Escolha o horário novamente.", flashInfo)
		return model.PendingBooking{}, false
	}
	if err != nil {
		s.logger.Error("pending booking read failed", "err", err)
		s.redirectWithFlash(w, r, "/", "Não foi possível recuperar sua reserva.", flashError)
		return model.PendingBooking{}, false
	}
	return pb, true
}

// handleSuccess shows the confirmation once; the cookie is cleared on view.
func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(successCookie)
	if err != nil || cookie.Value == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: successCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})

	appt, err := s.appointments.Get(r.Context(), cookie.Value)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "success.html", map[string]any{"Appointment": appt})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "ajuda.html", nil)
}

func (s *Server) handleSessionRoom(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "sala_sessao.html", map[string]any{"SessionID": r.PathValue("id")})
}
