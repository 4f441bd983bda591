package web

import (
	"errors"
	"net/http"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/provision"
)

// uploadMemoryLimit bounds how much of a multipart body stays in memory.
const uploadMemoryLimit = 5 << 20

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "admin_dashboard.html", map[string]any{
		"Professionals": s.professionals.List(r.Context()),
	})
}

func (s *Server) handleAdminCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "admin_cadastro.html", nil)
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := provisionInput(r)
	if err != nil {
		s.redirectWithFlash(w, r, "/admin/cadastro_psicologo", "Envio inválido: "+err.Error(), flashError)
		return
	}
	defer cleanup()

	id, err := s.provisioner.Create(r.Context(), in)
	if errors.Is(err, apperr.ErrValidation) {
		s.redirectWithFlash(w, r, "/admin/cadastro_psicologo", err.Error(), flashError)
		return
	}
	if err != nil {
		s.logger.Error("professional provisioning failed", "email", in.Email, "err", err)
		s.redirectWithFlash(w, r, "/admin/cadastro_psicologo", "Falha ao cadastrar o psicólogo. Tente novamente.", flashError)
		return
	}
	s.logger.Info("professional provisioned", "id", id, "email", in.Email)
	s.redirectWithFlash(w, r, "/admin/dashboard", "Psicólogo cadastrado com sucesso.", flashSuccess)
}

func (s *Server) handleAdminEditForm(w http.ResponseWriter, r *http.Request) {
	p, err := s.professionals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.redirectWithFlash(w, r, "/admin/dashboard", "Psicólogo não encontrado.", flashError)
		return
	}
	s.render(w, r, "admin_editar.html", map[string]any{"Professional": p})
}

func (s *Server) handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, cleanup, err := provisionInput(r)
	if err != nil {
		s.redirectWithFlash(w, r, "/admin/psicologo/"+id+"/editar", "Envio inválido: "+err.Error(), flashError)
		return
	}
	defer cleanup()

	err = s.provisioner.Update(r.Context(), id, in)
	if errors.Is(err, apperr.ErrValidation) {
		s.redirectWithFlash(w, r, "/admin/psicologo/"+id+"/editar", err.Error(), flashError)
		return
	}
	if err != nil {
		s.logger.Error("professional update failed", "id", id, "err", err)
		s.redirectWithFlash(w, r, "/admin/dashboard", "Falha ao atualizar o cadastro.", flashError)
		return
	}
	s.redirectWithFlash(w, r, "/admin/dashboard", "Cadastro atualizado.", flashSuccess)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.provisioner.Delete(r.Context(), id); err != nil {
		s.logger.Error("professional delete failed", "id", id, "err", err)
		s.redirectWithFlash(w, r, "/admin/dashboard", "Falha ao excluir o psicólogo.", flashError)
		return
	}
	s.redirectWithFlash(w, r, "/admin/dashboard", "Psicólogo excluído.", flashSuccess)
}

// provisionInput reads the multipart provisioning form. The returned cleanup
// closes the upload file handle and is safe to call when no photo was sent.
func provisionInput(r *http.Request) (provision.Input, func(), error) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		return provision.Input{}, func() {}, err
	}

	in := provision.Input{
		Email:    r.FormValue("email"),
		Password: r.FormValue("senha"),
		Name:     r.FormValue("nome"),
		Gender:   r.FormValue("genero"),
		PriceRaw: r.FormValue("valor_sessao"),
		TagsRaw:  r.FormValue("especialidades"),
		Bio:      r.FormValue("bio"),
	}

	cleanup := func() {}
	file, header, err := r.FormFile("foto")
	switch {
	case err == nil:
		in.Photo = file
		in.PhotoName = header.Filename
		cleanup = func() { _ = file.Close() }
	case errors.Is(err, http.ErrMissingFile):
		// No photo is fine; provisioning falls back to the default avatar.
	default:
		return provision.Input{}, cleanup, err
	}
	return in, cleanup, nil
}
