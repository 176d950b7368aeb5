package repository

import (
	"context"
	"fmt"
	"strings"

	"botsad/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (full_name, phone, email, address, note)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.FullName, c.Phone, c.Email, c.Address, c.Note,
	).Scan(&id)
	return id, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	query := `SELECT id, full_name, phone, email, address, note, created_at, updated_at
	FROM customers WHERE id = $1`

	var c models.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.Note, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ListPaginated(ctx context.Context, limit, offset int) ([]*models.Customer, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, full_name, phone, email, address, note, created_at, updated_at
		 FROM customers ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.Note, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateFields обновляет только переданные (non-nil) поля.
func (r *CustomerRepository) UpdateFields(ctx context.Context, id int, input *models.UpdateCustomerRequest) error {
	set := []string{}
	args := []any{}

	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("full_name", input.FullName)
	add("phone", input.Phone)
	add("email", input.Email)
	add("address", input.Address)
	add("note", input.Note)

	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}
