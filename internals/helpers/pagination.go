package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

// Paging is a resolved ?page=&per_page= pair ready for Offset/Limit.
type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

func NewPaging(page, perPage int) Paging {
	if page < 1 {
		page = 1
	}
	return Paging{Page: page, PerPage: perPage, Offset: (page - 1) * perPage, Limit: perPage}
}

func queryInt(c *fiber.Ctx, keys ...string) int {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			n, _ := strconv.Atoi(v)
			return n
		}
	}
	return 0
}

// ResolvePaging reads ?page= and ?per_page= (alias ?limit=). maxPerPage 0 means no cap.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	perPage := queryInt(c, "per_page", "limit")
	switch {
	case perPage <= 0:
		perPage = defaultPerPage
	case maxPerPage > 0 && perPage > maxPerPage:
		perPage = maxPerPage
	}
	return NewPaging(queryInt(c, "page"), perPage)
}

func BuildPagination(total int64, p Paging, count int) *Pagination {
	per := int64(p.PerPage)
	if per <= 0 {
		per = 20
	}
	pages := int((total + per - 1) / per)
	if pages < 1 {
		pages = 1
	}
	return &Pagination{
		Page:       p.Page,
		PerPage:    int(per),
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
		Count:      count,
	}
}
