package model

import "time"

// CounterRecord is the persisted state of one article's counters.
type CounterRecord struct {
	Slug      string    `json:"slug" gorm:"primaryKey;type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin"`
	Views     int64     `json:"views" gorm:"not null;default:0"`
	Likes     int64     `json:"likes" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false;default:CURRENT_TIMESTAMP(6);type:datetime(6)"`
}

// TableName keeps the table shared across the SQL backends.
func (CounterRecord) TableName() string {
	return "article_counters"
}

type CounterResponse struct {
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
	Likes int64  `json:"likes"`
}

func (r *CounterRecord) ToResponse() *CounterResponse {
	return &CounterResponse{
		Slug:  r.Slug,
		Views: r.Views,
		Likes: r.Likes,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
