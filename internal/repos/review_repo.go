package repos

import (
	"encoding/json"

	"drwheels/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

type ReviewRow struct {
	domain.Review
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}

func (row *ReviewRow) Doc() domain.ReviewDoc {
	return domain.ReviewDoc{
		ID:        row.ID,
		CarID:     row.CarID,
		User:      domain.UserRef{ID: row.UserID, Name: row.UserName, Email: row.UserEmail},
		Rating:    row.Rating,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const reviewSelect = `
  SELECT r.id, r.car_id, r.user_id, r.rating, COALESCE(r.comment,'') AS comment,
         r.created_at, COALESCE(r.updated_at,'') AS updated_at,
         u.name AS user_name, u.email AS user_email
  FROM reviews r
  JOIN users u ON u.id = r.user_id`

func (r *ReviewRepo) Insert(rev *domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id,car_id,user_id,rating,comment) VALUES(?,?,?,?,?)
	`, rev.ID, rev.CarID, rev.UserID, rev.Rating, rev.Comment)
	return err
}

func (r *ReviewRepo) Get(id string) (domain.Review, error) {
	var rev domain.Review
	err := r.db.Get(&rev, `
	  SELECT id, car_id, user_id, rating, COALESCE(comment,'') AS comment,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM reviews WHERE id=?`, id)
	return rev, err
}

func (r *ReviewRepo) GetRow(id string) (ReviewRow, error) {
	var row ReviewRow
	err := r.db.Get(&row, reviewSelect+` WHERE r.id = ?`, id)
	return row, err
}

func (r *ReviewRepo) Update(rev *domain.Review) error {
	_, err := r.db.Exec(`
	  UPDATE reviews SET rating=?, comment=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, rev.Rating, rev.Comment, rev.ID)
	return err
}

func (r *ReviewRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE id=?`, id)
	return err
}

func (r *ReviewRepo) Exists(carID, userID string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM reviews WHERE car_id=? AND user_id=?`, carID, userID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ReviewRepo) ListByCar(carID string) ([]ReviewRow, error) {
	var out []ReviewRow
	err := r.db.Select(&out, reviewSelect+`
	  WHERE r.car_id = ?
	  ORDER BY datetime(r.created_at) DESC`, carID)
	return out, err
}

type userReviewRow struct {
	domain.Review
	CarMake   string  `db:"car_make"`
	CarModel  string  `db:"car_model"`
	CarYear   int     `db:"car_year"`
	CarPrice  float64 `db:"car_price"`
	CarImages string  `db:"car_images"`
}

// ListByUser returns the caller's reviews with a car summary attached.
// LEFT JOIN: the listing may have been deleted since.
func (r *ReviewRepo) ListByUser(userID string) ([]domain.UserReviewDoc, error) {
	var rows []userReviewRow
	err := r.db.Select(&rows, `
	  SELECT r.id, r.car_id, r.user_id, r.rating, COALESCE(r.comment,'') AS comment,
	         r.created_at, COALESCE(r.updated_at,'') AS updated_at,
	         COALESCE(c.make,'') AS car_make, COALESCE(c.model,'') AS car_model,
	         COALESCE(c.year,0)  AS car_year, COALESCE(c.price,0)  AS car_price,
	         COALESCE(c.images_json,'[]') AS car_images
	  FROM reviews r
	  LEFT JOIN cars c ON c.id = r.car_id
	  WHERE r.user_id = ?
	  ORDER BY datetime(r.created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserReviewDoc, 0, len(rows))
	for _, row := range rows {
		var images []string
		_ = json.Unmarshal([]byte(row.CarImages), &images)
		if images == nil {
			images = []string{}
		}
		out = append(out, domain.UserReviewDoc{
			ID:        row.ID,
			Car:       domain.CarRef{ID: row.CarID, Make: row.CarMake, Model: row.CarModel, Year: row.CarYear, Price: row.CarPrice, Images: images},
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// Ratings returns all rating values for a car; the aggregator recomputes
// from this full scan on every review mutation.
func (r *ReviewRepo) Ratings(carID string) ([]int, error) {
	var out []int
	err := r.db.Select(&out, `SELECT rating FROM reviews WHERE car_id=?`, carID)
	return out, err
}
