// Package avatar maps professional photos between the upload directory,
// stored filenames and public URLs.
package avatar

import (
	"path"
	"strings"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

// DefaultImageURL serves the placeholder shipped with the static assets.
const DefaultImageURL = "/static/img/default_avatar.jpg"

// Resolver computes public URLs for stored avatar filenames.
type Resolver struct {
	uploadURLPrefix string
}

// NewResolver takes the public URL prefix under which uploaded files are
// served, e.g. "/static/img/avatares".
func NewResolver(uploadURLPrefix string) *Resolver {
	return &Resolver{uploadURLPrefix: strings.TrimRight(uploadURLPrefix, "/")}
}

// ResolveURL is a pure function of the stored filename: the sentinel maps
// to the fixed default image, everything else joins the upload prefix.
func (r *Resolver) ResolveURL(filename string) string {
	if filename == "" || filename == model.DefaultAvatar {
		return DefaultImageURL
	}
	return r.uploadURLPrefix + "/" + path.Base(filename)
}
