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

const contactColumns = `id, name, email, phone, message, status, priority, source,
	COALESCE(ip_address, ''), COALESCE(user_agent, ''),
	email_sent, email_sent_at, auto_reply_sent, auto_reply_sent_at,
	follow_up_required, follow_up_date, tags,
	COALESCE(notes, ''), COALESCE(assigned_to, ''), created_at, updated_at`

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Create inserts a new contact_form row.
func (r *PgContactRepository) Create(ctx context.Context, c *model.ContactRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_form (
			id, name, email, phone, message, status, priority, source, ip_address, user_agent,
			email_sent, email_sent_at, auto_reply_sent, auto_reply_sent_at,
			follow_up_required, follow_up_date, tags, notes, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''),
			$11, $12, $13, $14, $15, $16, $17, NULLIF($18, ''), NULLIF($19, ''), $20, $21)`,
		c.ID, c.Name, c.Email, c.Phone, c.Message, c.Status, c.Priority, c.Source, c.IPAddress, c.UserAgent,
		c.EmailSent, c.EmailSentAt, c.AutoReplySent, c.AutoReplySentAt,
		c.FollowUpRequired, c.FollowUpDate, c.Tags, c.Notes, c.AssignedTo, c.CreatedAt, c.UpdatedAt,
	)
	return pgError(err)
}

// FindByID returns the contact with the given id or ErrNotFound.
func (r *PgContactRepository) FindByID(ctx context.Context, id string) (*model.ContactRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_form WHERE id = $1`, id)
	c, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List returns contacts filtered by status/priority, newest first.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error) {
	where, args := contactListWhere(opts)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_form `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + contactColumns + ` FROM contact_form ` + where +
		` ORDER BY created_at DESC, id DESC
		  LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []*model.ContactRecord
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		c.StripSensitive()
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

// Update applies the non-nil fields of u and bumps updated_at.
func (r *PgContactRepository) Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
	sets, args := contactUpdateSet(u)
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := `UPDATE contact_form SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + contactColumns

	c, err := scanContact(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pgError(err)
	}
	return c, nil
}

// contactListWhere builds the WHERE clause for List. "" and "all" disable a filter.
func contactListWhere(opts model.ContactListOptions) (string, []any) {
	var conditions []string
	var args []any

	if s := strings.TrimSpace(opts.Status); s != "" && s != "all" {
		args = append(args, s)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if p := strings.TrimSpace(opts.Priority); p != "" && p != "all" {
		args = append(args, p)
		conditions = append(conditions, "priority = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// contactUpdateSet builds SET assignments for the non-nil fields of u.
func contactUpdateSet(u model.ContactUpdate) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Priority != nil {
		add("priority", *u.Priority)
	}
	if u.Notes != nil {
		add("notes", optional(*u.Notes))
	}
	if u.AssignedTo != nil {
		add("assigned_to", optional(*u.AssignedTo))
	}
	if u.Tags != nil {
		add("tags", u.Tags)
	}
	if u.FollowUpRequired != nil {
		add("follow_up_required", *u.FollowUpRequired)
	}
	if u.FollowUpDate != nil {
		add("follow_up_date", *u.FollowUpDate)
	}
	if u.EmailSent != nil {
		add("email_sent", *u.EmailSent)
	}
	if u.EmailSentAt != nil {
		add("email_sent_at", *u.EmailSentAt)
	}
	if u.AutoReplySent != nil {
		add("auto_reply_sent", *u.AutoReplySent)
	}
	if u.AutoReplySentAt != nil {
		add("auto_reply_sent_at", *u.AutoReplySentAt)
	}
	return sets, args
}

func scanContact(row pgx.Row) (*model.ContactRecord, error) {
	var c model.ContactRecord
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.Status, &c.Priority, &c.Source,
		&c.IPAddress, &c.UserAgent,
		&c.EmailSent, &c.EmailSentAt, &c.AutoReplySent, &c.AutoReplySentAt,
		&c.FollowUpRequired, &c.FollowUpDate, &c.Tags,
		&c.Notes, &c.AssignedTo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}
