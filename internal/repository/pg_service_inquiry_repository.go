package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taxmantraa/backend/internal/model"
)

const inquiryColumns = `id, name, email, mobile, occupation, service_category, selected_services,
	message, status, priority, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
	lead_source, created_at, updated_at`

// PgServiceInquiryRepository is the PostgreSQL implementation of ServiceInquiryRepository.
type PgServiceInquiryRepository struct {
	pool *pgxpool.Pool
}

// NewPgServiceInquiryRepository creates a PgServiceInquiryRepository backed by the given pool.
func NewPgServiceInquiryRepository(pool *pgxpool.Pool) *PgServiceInquiryRepository {
	return &PgServiceInquiryRepository{pool: pool}
}

var _ ServiceInquiryRepository = (*PgServiceInquiryRepository)(nil)

// Create inserts a new service_inquiries row.
func (r *PgServiceInquiryRepository) Create(ctx context.Context, s *model.ServiceInquiryRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO service_inquiries (
			id, name, email, mobile, occupation, service_category, selected_services, message,
			status, priority, ip_address, user_agent, lead_source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''), $13, $14, $15)`,
		s.ID, s.Name, s.Email, s.Mobile, s.Occupation, s.ServiceCategory, s.SelectedServices, s.Message,
		s.Status, s.Priority, s.IPAddress, s.UserAgent, s.LeadSource, s.CreatedAt, s.UpdatedAt,
	)
	return pgError(err)
}

// FindByID returns the inquiry with the given id or ErrNotFound.
func (r *PgServiceInquiryRepository) FindByID(ctx context.Context, id string) (*model.ServiceInquiryRecord, error) {
	s, err := scanInquiry(r.pool.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM service_inquiries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// List returns inquiries filtered by status/category, newest first.
func (r *PgServiceInquiryRepository) List(ctx context.Context, opts model.ServiceInquiryListOptions) ([]*model.ServiceInquiryRecord, int, error) {
	where, args := inquiryListWhere(opts)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_inquiries `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, opts.Limit, opts.Offset)
	query := `SELECT ` + inquiryColumns + ` FROM service_inquiries ` + where +
		` ORDER BY created_at DESC, id DESC
		  LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []*model.ServiceInquiryRecord
	for rows.Next() {
		s, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		s.StripSensitive()
		inquiries = append(inquiries, s)
	}
	return inquiries, total, rows.Err()
}

// Update sets status and/or priority and bumps updated_at.
func (r *PgServiceInquiryRepository) Update(ctx context.Context, id string, u model.ServiceInquiryUpdate) (*model.ServiceInquiryRecord, error) {
	var sets []string
	var args []any
	if u.Status != nil {
		args = append(args, *u.Status)
		sets = append(sets, "status = $"+strconv.Itoa(len(args)))
	}
	if u.Priority != nil {
		args = append(args, *u.Priority)
		sets = append(sets, "priority = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := `UPDATE service_inquiries SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + inquiryColumns

	s, err := scanInquiry(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pgError(err)
	}
	return s, nil
}

func inquiryListWhere(opts model.ServiceInquiryListOptions) (string, []any) {
	var conditions []string
	var args []any

	if s := strings.TrimSpace(opts.Status); s != "" {
		args = append(args, s)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if c := strings.TrimSpace(opts.ServiceCategory); c != "" {
		args = append(args, c)
		conditions = append(conditions, "service_category = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanInquiry(row pgx.Row) (*model.ServiceInquiryRecord, error) {
	var s model.ServiceInquiryRecord
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Mobile, &s.Occupation, &s.ServiceCategory, &s.SelectedServices,
		&s.Message, &s.Status, &s.Priority, &s.IPAddress, &s.UserAgent,
		&s.LeadSource, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
