package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(n), nil
}

// ParseIDList accepts either [1,2] or [{"id":1}] bodies, the latter being what some clients send.
func ParseIDList(c *fiber.Ctx) ([]uint, error) {
	var ids []uint
	if err := c.BodyParser(&ids); err == nil {
		return ids, nil
	}
	var objs []struct {
		ID        uint `json:"id"`
		StudentID uint `json:"student_id"`
	}
	if err := c.BodyParser(&objs); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Body must be an array of ids")
	}
	ids = make([]uint, 0, len(objs))
	for _, o := range objs {
		switch {
		case o.StudentID != 0:
			ids = append(ids, o.StudentID)
		case o.ID != 0:
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

// UniqueIDs drops zeros and duplicates while keeping order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
