package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 是身份服务用户在本地的镜像，仅用于展示。
type User struct {
	ID        string `gorm:"primaryKey;size:64"`
	Email     string `gorm:"size:320;index"`
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`
	AvatarURL string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CV 表示用户创建的一份简历文档。Content 为不透明的 JSON，结构校验发生在 API 层。
// UserID 为软引用，TemplateID 可为空且不校验是否存在。
type CV struct {
	ID         string         `gorm:"primaryKey;size:36"`
	UserID     string         `gorm:"size:64;not null;index"`
	TemplateID *string        `gorm:"size:64"`
	Title      string         `gorm:"size:255;not null"`
	Content    datatypes.JSON `gorm:"type:jsonb;not null"`
	IsDraft    bool           `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BeforeCreate 为新文档分配 uuid。
func (cv *CV) BeforeCreate(_ *gorm.DB) error {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	return nil
}

// CVTemplate 表示只读的模板目录数据。
type CVTemplate struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:1024"`
	PreviewURL  string `gorm:"size:512"`
	Category    string `gorm:"size:64;not null;default:modern"`
	IsActive    bool   `gorm:"not null"`
	SortOrder   int    `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (User) TableName() string       { return "users" }
func (CV) TableName() string         { return "cvs" }
func (CVTemplate) TableName() string { return "cv_templates" }

// AllModels lists every table managed by AutoMigrate.
func AllModels() []any {
	return []any{&User{}, &CV{}, &CVTemplate{}}
}
