package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/db"
	"github.com/nicolas1xx/psicoapp/internal/model"
	"github.com/nicolas1xx/psicoapp/internal/outbox"
)

// AppointmentRepository persists appointments and writes their lifecycle
// events through the transactional outbox.
type AppointmentRepository struct {
	pool       *db.Pool
	outboxRepo *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outboxRepo: outboxRepo}
}

func (r *AppointmentRepository) ready() error {
	if !r.pool.Available() {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, db.ErrUnavailable)
	}
	return nil
}

const appointmentColumns = `id, psicologo_id, psicologo_nome, usuario_email, data_hora_sessao, sessao_tipo,
	duracao, valor, link_sessao, status, COALESCE(prontuario, ''), COALESCE(motivo_cancelamento, ''),
	criado_em, data_finalizacao, data_cancelamento`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.ProfessionalName,
		&a.ClientEmail,
		&a.SessionAt,
		&a.SessionType,
		&a.Duration,
		&a.Price,
		&a.SessionLink,
		&a.Status,
		&a.ClinicalNote,
		&a.CancelReason,
		&a.CreatedAt,
		&a.FinalizedAt,
		&a.CancelledAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

// Create inserts the appointment (status Pendente) and its created event in
// one transaction, returning the store-assigned id.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO agendamentos
			(psicologo_id, psicologo_nome, usuario_email, data_hora_sessao, sessao_tipo, duracao, valor, link_sessao, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, a.ProfessionalID, a.ProfessionalName, a.ClientEmail, a.SessionAt, a.SessionType, a.Duration,
		a.Price, a.SessionLink, model.StatusPending).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"professional_id": a.ProfessionalID,
		"client_email":    a.ClientEmail,
		"session_at":      a.SessionAt.UTC().Format(time.RFC3339),
		"session_type":    a.SessionType,
		"price":           a.Price,
	})
	if err != nil {
		return "", err
	}
	if err := r.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     "booking.appointment.created.v1",
		Payload:       payload,
	}); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return id, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	if err := r.ready(); err != nil {
		return model.Appointment{}, err
	}
	a, err := scanAppointment(r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM agendamentos
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, apperr.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return a, nil
}

func (r *AppointmentRepository) ListByProfessional(ctx context.Context, professionalID string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM agendamentos
		WHERE psicologo_id = $1
		ORDER BY data_hora_sessao ASC
	`, professionalID)
}

// History returns the professional's finished appointments, most recent
// session first.
func (r *AppointmentRepository) History(ctx context.Context, professionalID string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM agendamentos
		WHERE psicologo_id = $1
			AND status = ANY($2)
		ORDER BY data_hora_sessao DESC
	`, professionalID, []string{model.StatusHeld, model.StatusCancelled})
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrRemote, err)
		}
		appts = append(appts, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRemote, rows.Err())
	}
	return appts, nil
}

// Confirm moves Pendente to Confirmado.
func (r *AppointmentRepository) Confirm(ctx context.Context, id string) error {
	return r.transition(ctx, id, "booking.appointment.confirmed.v1", `
		UPDATE agendamentos
		SET status = $2
		WHERE id = $1
		RETURNING id
	`, model.StatusConfirmed)
}

// Finalize marks the session held and stores the clinical note.
func (r *AppointmentRepository) Finalize(ctx context.Context, id, clinicalNote string) error {
	return r.transition(ctx, id, "booking.appointment.finalized.v1", `
		UPDATE agendamentos
		SET status = $2, prontuario = $3, data_finalizacao = now()
		WHERE id = $1
		RETURNING id
	`, model.StatusHeld, clinicalNote)
}

// Cancel stores the reason alongside the status flip.
func (r *AppointmentRepository) Cancel(ctx context.Context, id, reason string) error {
	return r.transition(ctx, id, "booking.appointment.cancelled.v1", `
		UPDATE agendamentos
		SET status = $2, motivo_cancelamento = $3, data_cancelamento = now()
		WHERE id = $1
		RETURNING id
	`, model.StatusCancelled, reason)
}

// SetStatus is the generic status-change action behind the dashboard's
// concluir/cancelar buttons.
func (r *AppointmentRepository) SetStatus(ctx context.Context, id, status string) error {
	return r.transition(ctx, id, "booking.appointment.status_changed.v1", `
		UPDATE agendamentos
		SET status = $2
		WHERE id = $1
		RETURNING id
	`, status)
}

func (r *AppointmentRepository) transition(ctx context.Context, id, eventType, query string, args ...any) error {
	if err := r.ready(); err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	queryArgs := append([]any{id}, args...)
	var returned string
	err = tx.QueryRow(ctx, query, queryArgs...).Scan(&returned)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"changed_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := r.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	return tx.Commit(ctx)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM agendamentos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRemote, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
