package model

import (
	"time"

	"gorm.io/gorm"
)

// Category 影片分类
type Category string

const (
	CategoryAnalysis     Category = "ANALYSIS"
	CategoryProgramming  Category = "PROGRAMMING"
	CategoryPresentation Category = "PRESENTATION"
	CategoryOther        Category = "OTHER"
)

// Categories 全部分类，按展示顺序
var Categories = []Category{
	CategoryAnalysis,
	CategoryProgramming,
	CategoryPresentation,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryAnalysis:     "Análises",
	CategoryProgramming:  "Programação",
	CategoryPresentation: "Apresentação",
	CategoryOther:        "Outros",
}

// Valid 是否为合法分类
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label 展示名称
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Movie 影片
type Movie struct {
	ID              int       `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:100;not null;index"`
	Category        Category  `json:"category" gorm:"size:50;not null;index"`
	ViewCount       int       `json:"view_count" gorm:"not null;default:0;index"`
	CreationDate    time.Time `json:"creation_date" gorm:"column:creation_date;type:date;not null;index"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;default:0"`
	Description     string    `json:"description" gorm:"type:text"`
	Thumbnail       string    `json:"thumbnail"` // 相对于媒体目录的路径
	Episodes        []Episode `json:"episodes,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate 未指定创建日期时使用当天日期
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.CreationDate.IsZero() {
		m.CreationDate = Today()
	}
	return nil
}

// Episode 剧集，删除影片时级联删除
type Episode struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	MovieID   int    `json:"movie_id" gorm:"not null;index"`
	Title     string `json:"title" gorm:"size:100;not null"`
	VideoLink string `json:"video_link" gorm:"size:200;not null"`
}

// Today 当前 UTC 日期（零点）
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
