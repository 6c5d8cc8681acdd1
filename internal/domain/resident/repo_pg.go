package resident

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
	"github.com/vht/vht/internal/platform/identifier"
)

type residentRepoPG struct{ pool *pgxpool.Pool }

func NewResidentRepoPG(pool *pgxpool.Pool) ResidentRepository {
	return &residentRepoPG{pool: pool}
}

func (r *residentRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const residentCols = `id, unique_id, name, age, gender, phone, village_area, address,
	photo_id, registration_date, registered_by, created_at, updated_at`

func (r *residentRepoPG) scanResident(row pgx.Row) (*Resident, error) {
	var res Resident
	err := row.Scan(&res.ID, &res.UniqueID, &res.Name, &res.Age, &res.Gender,
		&res.Phone, &res.VillageArea, &res.Address, &res.PhotoID,
		&res.RegistrationDate, &res.RegisteredBy, &res.CreatedAt, &res.UpdatedAt)
	return &res, err
}

func (r *residentRepoPG) Create(ctx context.Context, res *Resident) error {
	res.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO residents (id, unique_id, name, age, gender, phone, village_area, address,
			photo_id, registration_date, registered_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		res.ID, res.UniqueID, res.Name, res.Age, res.Gender, res.Phone,
		res.VillageArea, res.Address, res.PhotoID, res.RegistrationDate, res.RegisteredBy)
	if isUniqueIDViolation(err) {
		return ErrDuplicateUniqueID
	}
	return err
}

// isUniqueIDViolation reports whether err is a unique-constraint violation on
// the registry number column.
func isUniqueIDViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "residents_unique_id_key"
	}
	return false
}

func (r *residentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Resident, error) {
	return r.scanResident(r.conn(ctx).QueryRow(ctx, `SELECT `+residentCols+` FROM residents WHERE id = $1`, id))
}

func (r *residentRepoPG) GetByUniqueID(ctx context.Context, uniqueID string) (*Resident, error) {
	return r.scanResident(r.conn(ctx).QueryRow(ctx, `SELECT `+residentCols+` FROM residents WHERE unique_id = $1`, uniqueID))
}

// Update never touches unique_id or registration_date.
func (r *residentRepoPG) Update(ctx context.Context, res *Resident) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE residents SET name=$2, age=$3, gender=$4, phone=$5, village_area=$6,
			address=$7, updated_at=NOW()
		WHERE id = $1`,
		res.ID, res.Name, res.Age, res.Gender, res.Phone, res.VillageArea, res.Address)
	return err
}

func (r *residentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM residents WHERE id = $1`, id)
	return err
}

func (r *residentRepoPG) List(ctx context.Context, limit, offset int) ([]*Resident, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM residents`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+residentCols+` FROM residents ORDER BY registration_date DESC, unique_id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *residentRepoPG) ListByVillage(ctx context.Context, village string, limit, offset int) ([]*Resident, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM residents WHERE village_area = $1`, village).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+residentCols+` FROM residents WHERE village_area = $1 ORDER BY name LIMIT $2 OFFSET $3`, village, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *residentRepoPG) Search(ctx context.Context, params SearchParams, limit, offset int) ([]*Resident, int, error) {
	query := `SELECT ` + residentCols + ` FROM residents WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM residents WHERE 1=1`
	var args []interface{}
	idx := 1

	if params.Query != "" {
		if identifier.IsValid(params.Query) {
			query += fmt.Sprintf(` AND unique_id = $%d`, idx)
			countQuery += fmt.Sprintf(` AND unique_id = $%d`, idx)
			args = append(args, params.Query)
		} else {
			query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
			countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
			args = append(args, "%"+params.Query+"%")
		}
		idx++
	}
	if params.Village != "" {
		query += fmt.Sprintf(` AND village_area = $%d`, idx)
		countQuery += fmt.Sprintf(` AND village_area = $%d`, idx)
		args = append(args, params.Village)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *residentRepoPG) SetPhotoID(ctx context.Context, id uuid.UUID, photoID *string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE residents SET photo_id=$2, updated_at=NOW() WHERE id = $1`, id, photoID)
	return err
}

func (r *residentRepoPG) collect(rows pgx.Rows, total int) ([]*Resident, int, error) {
	var items []*Resident
	for rows.Next() {
		res, err := r.scanResident(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, res)
	}
	return items, total, nil
}
