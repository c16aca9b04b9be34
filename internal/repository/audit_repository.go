package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/admin-console/internal/domain"
)

// AuditFilter narrows the audit trail listing.
type AuditFilter struct {
	Action     string
	ActorEmail string
	TargetType string
	TargetID   string
	Limit      int
	Offset     int
}

// AuditRepository stores console audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, int, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO console_audit (id, action, actor_email, actor_role, target_type, target_id, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Action,
		entry.ActorEmail,
		entry.ActorRole,
		entry.TargetType,
		entry.TargetID,
		details,
		entry.CreatedAt,
	)
	return err
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, int, error) {
	where, args := auditWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM console_audit WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, action, actor_email, actor_role, target_type, target_id, details, created_at
              FROM console_audit WHERE ` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.ActorEmail,
			&entry.ActorRole,
			&entry.TargetType,
			&entry.TargetID,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func auditWhere(filter AuditFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	add := func(column, val string) {
		if strings.TrimSpace(val) == "" {
			return
		}
		args = append(args, strings.TrimSpace(val))
		clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	add("action", filter.Action)
	add("actor_email", filter.ActorEmail)
	add("target_type", filter.TargetType)
	add("target_id", filter.TargetID)
	return strings.Join(clauses, " AND "), args
}

// memoryAuditRepository keeps the most recent entries in process. It backs the
// audit page when no database is configured.
type memoryAuditRepository struct {
	mu       sync.RWMutex
	capacity int
	entries  []domain.AuditEntry
}

// NewMemoryAuditRepository keeps at most capacity entries, dropping the oldest.
func NewMemoryAuditRepository(capacity int) AuditRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &memoryAuditRepository{capacity: capacity}
}

func (r *memoryAuditRepository) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append([]domain.AuditEntry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *memoryAuditRepository) List(_ context.Context, filter AuditFilter) ([]domain.AuditEntry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.AuditEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !matches(filter.Action, e.Action) || !matches(filter.ActorEmail, e.ActorEmail) ||
			!matches(filter.TargetType, e.TargetType) || !matches(filter.TargetID, e.TargetID) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

func matches(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || want == got
}
