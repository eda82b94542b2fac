package repository

import "gorm.io/gorm"

// Page selects one page of an admin listing. Page numbers start at 1.
type Page struct {
	Page  int
	Limit int
}

// Normalize fills in the defaults for a missing or out-of-range page.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

func likePattern(query string) string {
	return "%" + query + "%"
}
