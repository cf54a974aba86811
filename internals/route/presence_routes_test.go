package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

var pdf = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")

func (c *campus) justify(t *testing.T, u *userModel.UserModel, values map[string]string) *http.Response {
	t.Helper()
	body, ct := upload(t, "file", "certificat.pdf", pdf, values)
	return c.do(t, http.MethodPost, fmt.Sprintf("/api/presence/justify/%d", c.slot.ID), u, body, ct)
}

func (c *campus) presence(t *testing.T, studentID uint) (presenceModel.PresenceModel, bool) {
	t.Helper()
	var rows []presenceModel.PresenceModel
	require.NoError(t, c.db.Where("student_id = ? AND slot_id = ?", studentID, c.slot.ID).Find(&rows).Error)
	if len(rows) == 0 {
		return presenceModel.PresenceModel{}, false
	}
	return rows[0], true
}

func TestStudentJustifiesOnlyTheirOwnAbsence(t *testing.T) {
	c := newCampus(t)

	// a forged student_id is ignored for students
	resp := c.justify(t, c.aliceU, map[string]string{"student_id": strconv.FormatUint(uint64(c.bob.ID), 10)})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	own, ok := c.presence(t, c.alice.ID)
	require.True(t, ok)
	assert.True(t, own.Justified)
	require.NotNil(t, own.JustificationFile)

	_, ok = c.presence(t, c.bob.ID)
	assert.False(t, ok)
}

func TestManagerJustifyNeedsExistingStudent(t *testing.T) {
	c := newCampus(t)

	resp := c.justify(t, c.manager, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = c.justify(t, c.manager, map[string]string{"student_id": "99999"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	objects, err := c.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects, "rejected upload must not leave a blob behind")

	resp = c.justify(t, c.manager, map[string]string{"student_id": strconv.FormatUint(uint64(c.bob.ID), 10)})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	_, ok := c.presence(t, c.bob.ID)
	assert.True(t, ok)
}

func TestDownloadJustificationOwnership(t *testing.T) {
	c := newCampus(t)
	require.Equal(t, fiber.StatusCreated, c.justify(t, c.aliceU, nil).StatusCode)

	path := fmt.Sprintf("/api/presence/%d/%d/justification", c.alice.ID, c.slot.ID)

	resp := c.doJSON(t, http.MethodGet, path, c.bobU, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = c.doJSON(t, http.MethodGet, path, c.aliceU, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	resp = c.doJSON(t, http.MethodGet, path, c.manager, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = c.doJSON(t, http.MethodGet, fmt.Sprintf("/api/presence/%d/%d/justification", c.bob.ID, c.slot.ID), c.manager, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
