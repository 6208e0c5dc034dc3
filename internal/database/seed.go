package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTemplates 是初始模板目录。ID 与预览渲染使用的模板标识一致。
var DefaultTemplates = []CVTemplate{
	{ID: "1", Name: "Modern Professional", Description: "Clean and modern design perfect for corporate roles", Category: "modern", PreviewURL: "templates/modern-professional.png", IsActive: true, SortOrder: 1},
	{ID: "2", Name: "Creative Designer", Description: "Eye-catching layout for creative professionals", Category: "creative", PreviewURL: "templates/creative-designer.png", IsActive: true, SortOrder: 2},
	{ID: "3", Name: "Executive", Description: "Sophisticated template for senior positions", Category: "executive", PreviewURL: "templates/executive.png", IsActive: true, SortOrder: 3},
	{ID: "4", Name: "Minimalist", Description: "Simple and clean design focusing on content", Category: "minimal", PreviewURL: "templates/minimalist.png", IsActive: true, SortOrder: 4},
	{ID: "5", Name: "Tech Professional", Description: "Perfect for software developers and tech roles", Category: "tech", PreviewURL: "templates/tech-professional.png", IsActive: true, SortOrder: 5},
	{ID: "6", Name: "Academic", Description: "Formal template for academic and research positions", Category: "academic", PreviewURL: "templates/academic.png", IsActive: true, SortOrder: 6},
	{ID: "7", Name: "Sales & Marketing", Description: "Dynamic template for sales and marketing professionals", Category: "sales", PreviewURL: "templates/sales-marketing.png", IsActive: true, SortOrder: 7},
	{ID: "8", Name: "Healthcare", Description: "Professional template for healthcare workers", Category: "healthcare", PreviewURL: "templates/healthcare.png", IsActive: true, SortOrder: 8},
	{ID: "9", Name: "Finance", Description: "Conservative design for finance professionals", Category: "finance", PreviewURL: "templates/finance.png", IsActive: true, SortOrder: 9},
	{ID: "10", Name: "Startup", Description: "Modern template for startup and entrepreneurial roles", Category: "startup", PreviewURL: "templates/startup.png", IsActive: true, SortOrder: 10},
}

// SeedTemplates inserts the catalog, leaving existing rows untouched. It returns the number of inserted rows.
func SeedTemplates(ctx context.Context, db *gorm.DB, templates []CVTemplate) (int64, error) {
	if len(templates) == 0 {
		return 0, nil
	}
	rows := make([]CVTemplate, len(templates))
	copy(rows, templates)

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("seed templates: %w", result.Error)
	}
	return result.RowsAffected, nil
}
