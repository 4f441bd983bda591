package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/db"
	"github.com/nicolas1xx/psicoapp/internal/model"
)

// ProfessionalRepository reads and writes professional profiles. The
// professionals table keeps the legacy storage column names (nome, bio,
// especialidades, foto_url, ...); scans remap them onto the application
// model, so the remapping lives in exactly one place.
type ProfessionalRepository struct {
	pool     *db.Pool
	defaults []model.Professional
	logger   *slog.Logger
}

func NewProfessionalRepository(pool *db.Pool, defaults []model.Professional, logger *slog.Logger) *ProfessionalRepository {
	return &ProfessionalRepository{pool: pool, defaults: defaults, logger: logger}
}

const professionalColumns = `id, nome, genero, valor_sessao, COALESCE(bio, ''), especialidades, COALESCE(foto_url, ''), email, cadastrado_em`

func (r *ProfessionalRepository) ready() error {
	if !r.pool.Available() {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, db.ErrUnavailable)
	}
	return nil
}

func scanProfessional(row pgx.Row) (model.Professional, error) {
	var p model.Professional
	var tags []string
	err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.SessionPrice, &p.ShortDescription, &tags, &p.AvatarFilename, &p.Email, &p.RegisteredAt)
	if err != nil {
		return model.Professional{}, err
	}
	p.Tags = tags
	normalizeProfessional(&p)
	return p, nil
}

func normalizeProfessional(p *model.Professional) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.AvatarFilename == "" {
		p.AvatarFilename = model.DefaultAvatar
	}
}

// List returns every professional. It never fails: a query error or an
// empty table falls back to the injected default dataset, normalized the
// same way as stored rows. The whole collection is re-read on every call;
// the dataset is small and caching is an explicit non-goal.
func (r *ProfessionalRepository) List(ctx context.Context) []model.Professional {
	if r.pool.Available() {
		professionals, err := r.listFromStore(ctx)
		if err != nil {
			r.logger.Warn("professional list query failed; serving defaults", "err", err)
		} else if len(professionals) > 0 {
			return professionals
		}
	}

	out := make([]model.Professional, len(r.defaults))
	copy(out, r.defaults)
	for i := range out {
		normalizeProfessional(&out[i])
	}
	return out
}

func (r *ProfessionalRepository) listFromStore(ctx context.Context) ([]model.Professional, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+professionalColumns+`
		FROM psicologos
		ORDER BY cadastrado_em DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var professionals []model.Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		professionals = append(professionals, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return professionals, nil
}

// Get looks a professional up by id, searching the same collection List
// serves (including the fallback dataset when the store is down).
func (r *ProfessionalRepository) Get(ctx context.Context, id string) (model.Professional, error) {
	for _, p := range r.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Professional{}, apperr.ErrNotFound
}

// Create inserts a profile keyed by the identity id. It deliberately runs
// outside any transaction shared with the account write: the two stores are
// distinct collaborators and the pairing is only logical (see provisioning).
func (r *ProfessionalRepository) Create(ctx context.Context, p model.Professional) error {
	if err := r.ready(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO psicologos (id, nome, genero, valor_sessao, bio, especialidades, foto_url, email, cadastrado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, p.ID, p.Name, p.Gender, p.SessionPrice, p.ShortDescription, p.Tags, p.AvatarFilename, p.Email)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return nil
}

// Update rewrites the profile fields; the avatar filename is only touched
// when a new one is supplied.
func (r *ProfessionalRepository) Update(ctx context.Context, id string, p model.Professional, newAvatar string) error {
	if err := r.ready(); err != nil {
		return err
	}
	var err error
	if newAvatar != "" {
		_, err = r.pool.Exec(ctx, `
			UPDATE psicologos
			SET nome = $2, genero = $3, valor_sessao = $4, bio = $5, especialidades = $6, email = $7, foto_url = $8
			WHERE id = $1
		`, id, p.Name, p.Gender, p.SessionPrice, p.ShortDescription, p.Tags, p.Email, newAvatar)
	} else {
		_, err = r.pool.Exec(ctx, `
			UPDATE psicologos
			SET nome = $2, genero = $3, valor_sessao = $4, bio = $5, especialidades = $6, email = $7
			WHERE id = $1
		`, id, p.Name, p.Gender, p.SessionPrice, p.ShortDescription, p.Tags, p.Email)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return nil
}

func (r *ProfessionalRepository) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM psicologos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetStored reads a profile directly from the store, bypassing the fallback
// dataset. Deletion uses it to learn the stored photo filename.
func (r *ProfessionalRepository) GetStored(ctx context.Context, id string) (model.Professional, error) {
	if err := r.ready(); err != nil {
		return model.Professional{}, err
	}
	p, err := scanProfessional(r.pool.QueryRow(ctx, `
		SELECT `+professionalColumns+`
		FROM psicologos
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Professional{}, apperr.ErrNotFound
	}
	if err != nil {
		return model.Professional{}, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return p, nil
}
