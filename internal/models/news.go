package models

import "time"

// ImageURLPrefix — префикс, под которым раздаются загруженные картинки.
const ImageURLPrefix = "/uploads/"

type News struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageFile string    `json:"-"`
	ImageURL  string    `json:"image_url,omitempty"`
	UserID    *int      `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Hashtags  []Hashtag `json:"hashtags"`
}

type Hashtag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HashtagInput — хэштег в теле запроса: {"name": "#роза"}.
type HashtagInput struct {
	Name string `json:"name"`
}

// NewsUpdate — частичное обновление. nil-поле означает «не трогать».
// Hashtags == nil — не трогать связи; пустой срез — очистить.
type NewsUpdate struct {
	Title    *string
	Content  *string
	Hashtags *[]string
}
