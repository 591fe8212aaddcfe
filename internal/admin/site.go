// Package admin 后台站点配置：注册的模型与用户详情分组
//
// Site 在启动时构建一次并传给 handler，不存在包级可变配置。
package admin

import (
	"github.com/user/streamflix/internal/model"
)

// Fieldset 用户详情中的一组字段
type Fieldset struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// ModelAdmin 后台注册的模型
type ModelAdmin struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	ListFields []string `json:"list_fields"`
}

// Site 后台站点
type Site struct {
	Models        []ModelAdmin
	UserFieldsets []Fieldset
}

// Field 已取值的字段
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Section 已取值的分组
type Section struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// HistoryField 观看历史字段名
const HistoryField = "watched_movies"

// StandardUserFieldsets 账号的标准分组，每次返回新副本
func StandardUserFieldsets() []Fieldset {
	return []Fieldset{
		{Name: "", Fields: []string{"username"}},
		{Name: "Informações pessoais", Fields: []string{"first_name", "last_name", "email"}},
		{Name: "Permissões", Fields: []string{"role"}},
		{Name: "Datas importantes", Fields: []string{"created_at"}},
	}
}

// NewSite 创建后台站点：影片、剧集、用户，用户详情附加“Histórico”分组
func NewSite() *Site {
	fieldsets := StandardUserFieldsets()
	fieldsets = append(fieldsets, Fieldset{Name: "Histórico", Fields: []string{HistoryField}})

	return &Site{
		Models: []ModelAdmin{
			{Name: "Filme", Path: "movies", ListFields: []string{"id", "title", "category", "view_count", "creation_date"}},
			{Name: "Episódio", Path: "episodes", ListFields: []string{"id", "movie_id", "title", "video_link"}},
			{Name: "Usuário", Path: "users", ListFields: []string{"id", "username", "email", "role"}},
		},
		UserFieldsets: fieldsets,
	}
}

// Model 按路径查找注册的模型
func (s *Site) Model(path string) (ModelAdmin, bool) {
	for _, m := range s.Models {
		if m.Path == path {
			return m, true
		}
	}
	return ModelAdmin{}, false
}

// UserSections 按分组取出用户字段，history 为该用户看过的影片
func (s *Site) UserSections(user *model.User, history []*model.Movie) []Section {
	sections := make([]Section, 0, len(s.UserFieldsets))
	for _, fs := range s.UserFieldsets {
		section := Section{Name: fs.Name, Fields: make([]Field, 0, len(fs.Fields))}
		for _, name := range fs.Fields {
			section.Fields = append(section.Fields, Field{Name: name, Value: userValue(user, history, name)})
		}
		sections = append(sections, section)
	}
	return sections
}

// MovieRef 历史分组中的影片摘要
type MovieRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func userValue(user *model.User, history []*model.Movie, field string) any {
	switch field {
	case "username":
		return user.Username
	case "first_name":
		return user.FirstName
	case "last_name":
		return user.LastName
	case "email":
		return user.Email
	case "role":
		return user.Role
	case "created_at":
		return user.CreatedAt
	case HistoryField:
		refs := make([]MovieRef, 0, len(history))
		for _, m := range history {
			refs = append(refs, MovieRef{ID: m.ID, Title: m.Title})
		}
		return refs
	default:
		return nil
	}
}
