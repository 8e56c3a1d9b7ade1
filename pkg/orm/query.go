// Package orm holds query helpers shared by the repositories.
package orm

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// Pagination is returned alongside every paged list.
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Page is a normalised page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page to 1..MaxPage and limit to 1..MaxLimit (DefaultLimit
// when 0).
func NewPage(page, limit int) Page {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

// ParsePage builds a Page from raw query-string values.
func ParsePage(page, limit string) Page {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return NewPage(p, l)
}

func (p Page) Offset() int { return (p.Number - 1) * p.Limit }

// Paginate counts q, then loads one page of it into dest.
func Paginate(q *gorm.DB, p Page, dest any) (Pagination, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.Session(&gorm.Session{}).Offset(p.Offset()).Limit(p.Limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if last == 0 {
		last = 1
	}

	return Pagination{Page: p.Number, Limit: p.Limit, Total: total, LastPage: last}, nil
}
