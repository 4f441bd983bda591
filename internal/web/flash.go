package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "psicoapp_flash"

const (
	flashSuccess = "success"
	flashError   = "danger"
	flashInfo    = "info"
)

// Flash is a one-shot message rendered on the next page load.
type Flash struct {
	Message  string `json:"m"`
	Category string `json:"c"`
}

func setFlash(w http.ResponseWriter, message, category string) {
	raw, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash reads and clears the flash cookie in one step.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
