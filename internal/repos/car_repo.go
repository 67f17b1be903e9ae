package repos

import (
	"encoding/json"

	"drwheels/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CarRepo struct{ db *sqlx.DB }

func NewCarRepo(db *sqlx.DB) *CarRepo { return &CarRepo{db: db} }

// CarRow is a car joined with its seller's public fields.
type CarRow struct {
	domain.Car
	SellerName  string `db:"seller_name"`
	SellerEmail string `db:"seller_email"`
}

func (row *CarRow) Doc() domain.CarDoc {
	var images []string
	_ = json.Unmarshal([]byte(row.ImagesJSON), &images)
	if images == nil {
		images = []string{}
	}
	return domain.CarDoc{
		ID:            row.ID,
		Make:          row.Make,
		Model:         row.Model,
		Year:          row.Year,
		Price:         row.Price,
		Mileage:       row.Mileage,
		Color:         row.Color,
		Description:   row.Description,
		Images:        images,
		Seller:        domain.UserRef{ID: row.SellerID, Name: row.SellerName, Email: row.SellerEmail},
		Status:        row.Status,
		AverageRating: row.AverageRating,
		ReviewCount:   row.ReviewCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

const carSelect = `
  SELECT c.id, c.seller_id, c.make, c.model, c.year, c.price, c.mileage,
         COALESCE(c.color,'') AS color, COALESCE(c.description,'') AS description,
         c.images_json, c.status, c.average_rating, c.review_count,
         c.created_at, COALESCE(c.updated_at,'') AS updated_at,
         u.name AS seller_name, u.email AS seller_email
  FROM cars c
  JOIN users u ON u.id = c.seller_id`

func (r *CarRepo) Insert(c *domain.Car) error {
	_, err := r.db.Exec(`
	  INSERT INTO cars(id,seller_id,make,model,year,price,mileage,color,description,images_json,status)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)
	`, c.ID, c.SellerID, c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Color, c.Description, c.ImagesJSON, c.Status)
	return err
}

func (r *CarRepo) Get(id string) (CarRow, error) {
	var row CarRow
	err := r.db.Get(&row, carSelect+` WHERE c.id = ?`, id)
	return row, err
}

// Update persists the mutable listing fields after a partial update has
// been applied in the service layer.
func (r *CarRepo) Update(c *domain.Car) error {
	_, err := r.db.Exec(`
	  UPDATE cars SET make=?, model=?, year=?, price=?, mileage=?, color=?,
	                  description=?, images_json=?, status=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Color, c.Description, c.ImagesJSON, c.Status, c.ID)
	return err
}

func (r *CarRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM cars WHERE id=?`, id)
	return err
}

func (r *CarRepo) ListBySeller(sellerID string) ([]CarRow, error) {
	var out []CarRow
	err := r.db.Select(&out, carSelect+`
	  WHERE c.seller_id = ?
	  ORDER BY datetime(c.created_at) DESC`, sellerID)
	return out, err
}

func (r *CarRepo) SetStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE cars SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	return err
}

// SetRating is only called by the review aggregator; nothing else may
// touch average_rating/review_count.
func (r *CarRepo) SetRating(id string, avg float64, count int) error {
	_, err := r.db.Exec(`UPDATE cars SET average_rating=?, review_count=? WHERE id=?`, avg, count, id)
	return err
}

// CarFilter carries the listing query after validation. Min/Max values of
// -1 mean "not set"; string filters are empty when unset.
type CarFilter struct {
	Search     string
	Make       string
	Model      string
	Color      string
	Year       int
	MinYear    int
	MaxYear    int
	MinPrice   float64
	MaxPrice   float64
	MinMileage int
	MaxMileage int

	SortColumn string // whitelisted column name
	SortDir    string // ASC | DESC
	Limit      int
	Offset     int
}

func NewCarFilter() CarFilter {
	return CarFilter{
		Year: -1, MinYear: -1, MaxYear: -1,
		MinPrice: -1, MaxPrice: -1,
		MinMileage: -1, MaxMileage: -1,
		SortColumn: "created_at", SortDir: "DESC",
		Limit: 12, Offset: 0,
	}
}

func (f *CarFilter) where() (string, []any) {
	// Public search only ever sees available cars.
	where := `c.status = 'available'`
	args := []any{}

	if f.Search != "" {
		p := "%" + f.Search + "%"
		where += ` AND (c.make LIKE ? COLLATE NOCASE OR c.model LIKE ? COLLATE NOCASE OR c.description LIKE ? COLLATE NOCASE)`
		args = append(args, p, p, p)
	}
	if f.Make != "" {
		where += ` AND c.make LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Make+"%")
	}
	if f.Model != "" {
		where += ` AND c.model LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Model+"%")
	}
	if f.Color != "" {
		where += ` AND c.color LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Color+"%")
	}
	if f.Year >= 0 {
		where += ` AND c.year = ?`
		args = append(args, f.Year)
	} else {
		if f.MinYear >= 0 {
			where += ` AND c.year >= ?`
			args = append(args, f.MinYear)
		}
		if f.MaxYear >= 0 {
			where += ` AND c.year <= ?`
			args = append(args, f.MaxYear)
		}
	}
	if f.MinPrice >= 0 {
		where += ` AND c.price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice >= 0 {
		where += ` AND c.price <= ?`
		args = append(args, f.MaxPrice)
	}
	if f.MinMileage >= 0 {
		where += ` AND c.mileage >= ?`
		args = append(args, f.MinMileage)
	}
	if f.MaxMileage >= 0 {
		where += ` AND c.mileage <= ?`
		args = append(args, f.MaxMileage)
	}
	return where, args
}

// Search returns one page of available cars plus the unpaged total.
func (r *CarRepo) Search(f CarFilter) ([]CarRow, int, error) {
	where, args := f.where()

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM cars c WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	// SortColumn/SortDir come from a whitelist, never from raw input.
	q := carSelect + ` WHERE ` + where +
		` ORDER BY c.` + f.SortColumn + ` ` + f.SortDir +
		` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var out []CarRow
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
