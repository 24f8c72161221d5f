package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy/internal/models"
	"taxonomy/internal/taxonomy"
)

func TestTagLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(t, env.API.CreateTag, request{
		method: http.MethodPost,
		target: "/api/tags",
		body:   tagRequest{NameVI: "Lập trình", NameEN: "Programming"},
		actor:  true,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tag := decode[models.Tag](t, rr)
	assert.Equal(t, "programming", tag.Slug)
	assert.NotContains(t, rr.Body.String(), "name_en_key")

	rr = serve(t, env.API.GetTag, request{method: http.MethodGet, target: "/api/tags/" + tag.ID.String(), params: idParam(tag.ID)})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Programming", decode[models.Tag](t, rr).NameEN)

	rr = serve(t, env.API.UpdateTag, request{
		method: http.MethodPatch,
		target: "/api/tags/" + tag.ID.String(),
		body:   `{"name_en":"Coding"}`,
		params: idParam(tag.ID),
		actor:  true,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "coding", decode[models.Tag](t, rr).Slug)

	rr = serve(t, env.API.ListTags, request{method: http.MethodGet, target: "/api/tags?keyword=cod"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[taxonomy.Paged[models.Tag]](t, rr).Total)

	rr = serve(t, env.API.DeleteTag, request{
		method: http.MethodDelete,
		target: "/api/tags/" + tag.ID.String(),
		params: idParam(tag.ID),
		actor:  true,
	})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(t, env.API.GetTag, request{method: http.MethodGet, target: "/api/tags/" + tag.ID.String(), params: idParam(tag.ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateTagValidation(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(t, env.API.CreateTag, request{
		method: http.MethodPost,
		target: "/api/tags",
		body:   `{"name_en":"Go"}`,
		actor:  true,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	_, msg := errorOf(t, rr)
	assert.Equal(t, "name_vi is required", msg)

	rr = serve(t, env.API.DeleteTag, request{
		method: http.MethodDelete,
		target: "/api/tags/x",
		params: idParam(uuid.New()),
		actor:  true,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
