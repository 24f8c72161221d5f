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

func createPost(t *testing.T, env *testEnv, req createPostRequest) models.Post {
	t.Helper()
	rr := serve(t, env.API.CreatePost, request{
		method: http.MethodPost,
		target: "/api/posts",
		body:   req,
		actor:  true,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Post](t, rr)
}

func TestCreatePostResolvesTags(t *testing.T) {
	env := newTestEnv(t)
	cat := createCategory(t, env, "Tech", nil)

	post := createPost(t, env, createPostRequest{
		TitleVI:    "Xin chào",
		TitleEN:    "Hello World",
		CategoryID: &cat.ID,
		Tags:       []string{"Go", " go ", "Databases", ""},
	})

	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	require.Len(t, post.Tags, 2)
	assert.Equal(t, "Databases", post.Tags[0].NameEN)
	assert.Equal(t, "Go", post.Tags[1].NameEN)
}

func TestCreatePostRejects(t *testing.T) {
	env := newTestEnv(t)
	missing := uuid.New()

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing title", `{"title_vi":"a"}`, http.StatusBadRequest},
		{"bad status", `{"title_vi":"a","title_en":"b","status":"LIVE"}`, http.StatusBadRequest},
		{"unknown category", createPostRequest{TitleVI: "a", TitleEN: "b", CategoryID: &missing}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, env.API.CreatePost, request{method: http.MethodPost, target: "/api/posts", body: tt.body, actor: true})
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestListPostsIncludesSubcategories(t *testing.T) {
	env := newTestEnv(t)
	tech := createCategory(t, env, "Tech", nil)
	golang := createCategory(t, env, "Go", &tech.ID)
	travel := createCategory(t, env, "Travel", nil)

	createPost(t, env, createPostRequest{TitleVI: "a", TitleEN: "Tech News", CategoryID: &tech.ID})
	createPost(t, env, createPostRequest{TitleVI: "b", TitleEN: "Go Tips", CategoryID: &golang.ID, Status: models.PostStatusPublished})
	createPost(t, env, createPostRequest{TitleVI: "c", TitleEN: "Hanoi", CategoryID: &travel.ID})

	rr := serve(t, env.API.ListPosts, request{method: http.MethodGet, target: "/api/posts?category_id=" + tech.ID.String()})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[taxonomy.Paged[models.Post]](t, rr).Total)

	rr = serve(t, env.API.ListPosts, request{method: http.MethodGet, target: "/api/posts?category_slug=go"})
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[taxonomy.Paged[models.Post]](t, rr)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "go-tips", page.Items[0].Slug)

	rr = serve(t, env.API.ListPosts, request{method: http.MethodGet, target: "/api/posts?status=PUBLISHED"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[taxonomy.Paged[models.Post]](t, rr).Total)

	rr = serve(t, env.API.ListPosts, request{method: http.MethodGet, target: "/api/posts?category_slug=nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	cat := createCategory(t, env, "Tech", nil)
	post := createPost(t, env, createPostRequest{TitleVI: "a", TitleEN: "Draft", CategoryID: &cat.ID, Tags: []string{"Go"}})

	rr := serve(t, env.API.UpdatePost, request{
		method: http.MethodPatch,
		target: "/api/posts/" + post.ID.String(),
		body:   `{"status":"PUBLISHED","category_id":null,"tags":["Rust"]}`,
		params: idParam(post.ID),
		actor:  true,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[models.Post](t, rr)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.NotNil(t, got.PublishedAt)
	assert.Nil(t, got.CategoryID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Rust", got.Tags[0].NameEN)
	assert.Equal(t, "draft", got.Slug)

	rr = serve(t, env.API.DeletePost, request{
		method: http.MethodDelete,
		target: "/api/posts/" + post.ID.String(),
		params: idParam(post.ID),
		actor:  true,
	})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(t, env.API.GetPost, request{method: http.MethodGet, target: "/api/posts/" + post.ID.String(), params: idParam(post.ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
