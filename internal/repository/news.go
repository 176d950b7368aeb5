package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"botsad/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewsRepository struct {
	db *pgxpool.Pool
}

func NewNewsRepository(db *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create вставляет новость и её хэштеги в одной транзакции.
func (r *NewsRepository) Create(ctx context.Context, news *models.News, hashtags []string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO news (title, content, user_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		news.Title, news.Content, news.UserID, news.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := replaceHashtags(ctx, tx, id, hashtags); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// Update меняет только переданные поля. Связи с хэштегами трогаем
// только если input.Hashtags != nil (пустой срез — очистить все).
func (r *NewsRepository) Update(ctx context.Context, id int, input *models.NewsUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	set := []string{}
	args := []any{}

	if input.Title != nil {
		args = append(args, *input.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if input.Content != nil {
		args = append(args, *input.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}

	if len(set) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE news SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
	}

	if input.Hashtags != nil {
		if err := replaceHashtags(ctx, tx, id, *input.Hashtags); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// replaceHashtags приводит связи новости ровно к набору names.
// Отсутствующие хэштеги создаются через upsert (конфликт по имени — как lookup),
// лишние связи снимаются, сами строки хэштегов не удаляются.
func replaceHashtags(ctx context.Context, tx pgx.Tx, newsID int, names []string) error {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		var hid int
		err := tx.QueryRow(ctx,
			`INSERT INTO hashtags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			name,
		).Scan(&hid)
		if err != nil {
			return err
		}
		ids = append(ids, hid)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM news_hashtags WHERE news_id = $1`, newsID); err != nil {
		return err
	}

	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, hid := range ids {
		batch.Queue(`INSERT INTO news_hashtags (news_id, hashtag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, newsID, hid)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range ids {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}

func (r *NewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	query := `SELECT id, title, content, COALESCE(image_file, ''), user_id, created_at FROM news WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)

	var n models.News
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.ImageFile, &n.UserID, &n.CreatedAt); err != nil {
		return nil, err
	}
	if n.ImageFile != "" {
		n.ImageURL = models.ImageURLPrefix + n.ImageFile
	}

	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.name
		 FROM hashtags h
		 JOIN news_hashtags nh ON nh.hashtag_id = h.id
		 WHERE nh.news_id = $1
		 ORDER BY h.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	n.Hashtags = []models.Hashtag{}
	for rows.Next() {
		var h models.Hashtag
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		n.Hashtags = append(n.Hashtags, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListPaginated — страница новостей (свежие первыми) вместе с хэштегами.
func (r *NewsRepository) ListPaginated(ctx context.Context, limit, offset int) ([]*models.News, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT n.id, n.title, n.content, COALESCE(n.image_file, ''), n.user_id, n.created_at,
       h.id, h.name
FROM (
  SELECT * FROM news ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2
) n
LEFT JOIN news_hashtags nh ON nh.news_id = n.id
LEFT JOIN hashtags h ON h.id = nh.hashtag_id
ORDER BY n.created_at DESC, n.id DESC, h.id;
`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.News
	var cur *models.News

	for rows.Next() {
		var n models.News
		var (
			tagID   sql.NullInt32
			tagName sql.NullString
		)

		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageFile, &n.UserID, &n.CreatedAt, &tagID, &tagName); err != nil {
			return nil, 0, err
		}

		// новая новость?
		if cur == nil || cur.ID != n.ID {
			if n.ImageFile != "" {
				n.ImageURL = models.ImageURLPrefix + n.ImageFile
			}
			n.Hashtags = []models.Hashtag{}
			out = append(out, &n)
			cur = out[len(out)-1]
		}

		// хэштег есть только если LEFT JOIN что-то нашёл
		if tagID.Valid {
			cur.Hashtags = append(cur.Hashtags, models.Hashtag{
				ID:   int(tagID.Int32),
				Name: tagName.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SetImage обновляет ссылку на файл превью.
func (r *NewsRepository) SetImage(ctx context.Context, id int, filename string) error {
	tag, err := r.db.Exec(ctx, `UPDATE news SET image_file = $1 WHERE id = $2`, filename, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete удаляет новость; связи news_hashtags уходят каскадом,
// сами хэштеги остаются.
func (r *NewsRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
