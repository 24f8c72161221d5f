package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestPostIsPublished verifies that IsPublished returns true only for the
// "PUBLISHED" status.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "published", status: PostStatusPublished, want: true},
		{name: "draft", status: PostStatusDraft, want: false},
		{name: "archived", status: PostStatusArchived, want: false},
		{name: "lowercase published", status: PostStatus("published"), want: false},
		{name: "empty status", status: PostStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status}
			assert.Equal(t, tt.want, p.IsPublished())
		})
	}
}

func TestPostStatusValid(t *testing.T) {
	assert.True(t, PostStatusDraft.Valid())
	assert.True(t, PostStatusArchived.Valid())
	assert.False(t, PostStatus("deleted").Valid())
}

func TestTagKey(t *testing.T) {
	assert.Equal(t, "công nghệ", TagKey("  Công Nghệ "))
	assert.Equal(t, "golang", TagKey("GoLang"))
	assert.Equal(t, "", TagKey("   "))
}

func TestTagSetNames(t *testing.T) {
	var tag Tag
	tag.SetNames("Lập Trình", " Programming ")
	assert.Equal(t, "lập trình", tag.NameVIKey)
	assert.Equal(t, "programming", tag.NameENKey)
	assert.Equal(t, " Programming ", tag.NameEN)
}

func TestCategoryIsRoot(t *testing.T) {
	parent := uuid.New()
	assert.True(t, (&Category{}).IsRoot())
	assert.False(t, (&Category{ParentID: &parent}).IsRoot())
}
