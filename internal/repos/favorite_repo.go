package repos

import (
	"drwheels/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) Insert(f *domain.Favorite) error {
	_, err := r.db.Exec(`INSERT INTO favorites(id,user_id,car_id) VALUES(?,?,?)`,
		f.ID, f.UserID, f.CarID)
	return err
}

// Remove deletes the (user,car) favorite and reports whether it existed.
func (r *FavoriteRepo) Remove(userID, carID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM favorites WHERE user_id=? AND car_id=?`, userID, carID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *FavoriteRepo) Exists(userID, carID string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM favorites WHERE user_id=? AND car_id=?`, userID, carID); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCars returns the favorited cars themselves (the API exposes cars,
// not the join rows), newest favorite first.
func (r *FavoriteRepo) ListCars(userID string) ([]CarRow, error) {
	var out []CarRow
	err := r.db.Select(&out, `
	  SELECT c.id, c.seller_id, c.make, c.model, c.year, c.price, c.mileage,
	         COALESCE(c.color,'') AS color, COALESCE(c.description,'') AS description,
	         c.images_json, c.status, c.average_rating, c.review_count,
	         c.created_at, COALESCE(c.updated_at,'') AS updated_at,
	         u.name AS seller_name, u.email AS seller_email
	  FROM favorites f
	  JOIN cars c  ON c.id = f.car_id
	  JOIN users u ON u.id = c.seller_id
	  WHERE f.user_id = ?
	  ORDER BY datetime(f.created_at) DESC`, userID)
	return out, err
}
