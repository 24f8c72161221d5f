// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/store"
	"taxonomy/internal/taxonomy"
)

type createCategoryRequest struct {
	NameVI      string     `json:"name_vi" validate:"required,max=100"`
	NameEN      string     `json:"name_en" validate:"required,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (req createCategoryRequest) input() taxonomy.CategoryInput {
	return taxonomy.CategoryInput{
		NameVI:      req.NameVI,
		NameEN:      req.NameEN,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
}

type updateCategoryRequest struct {
	NameVI      *string    `json:"name_vi" validate:"omitempty,max=100"`
	NameEN      *string    `json:"name_en" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	ParentID    optionalID `json:"parent_id"`
	Order       *int       `json:"order" validate:"omitempty,gte=0"`
}

func (req updateCategoryRequest) patch() taxonomy.CategoryPatch {
	return taxonomy.CategoryPatch{
		NameVI:      req.NameVI,
		NameEN:      req.NameEN,
		Description: req.Description,
		ParentID:    req.ParentID.engine(),
		Order:       req.Order,
	}
}

type reorderItem struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order" validate:"gte=0"`
}

type reorderRequest struct {
	Items []reorderItem `json:"items" validate:"required,min=1,dive"`
}

func (req reorderRequest) items() []store.ReorderItem {
	out := make([]store.ReorderItem, len(req.Items))
	for i, it := range req.Items {
		out[i] = store.ReorderItem{ID: it.ID, ParentID: it.ParentID, Order: it.Order}
	}
	return out
}

type tagRequest struct {
	NameVI string `json:"name_vi" validate:"required,max=100"`
	NameEN string `json:"name_en" validate:"required,max=100"`
}

type updateTagRequest struct {
	NameVI *string `json:"name_vi" validate:"omitempty,max=100"`
	NameEN *string `json:"name_en" validate:"omitempty,max=100"`
}

type createPostRequest struct {
	TitleVI    string            `json:"title_vi" validate:"required,max=255"`
	TitleEN    string            `json:"title_en" validate:"required,max=255"`
	ExcerptVI  string            `json:"excerpt_vi" validate:"max=500"`
	ExcerptEN  string            `json:"excerpt_en" validate:"max=500"`
	ContentVI  string            `json:"content_vi"`
	ContentEN  string            `json:"content_en"`
	Thumbnail  *string           `json:"thumbnail" validate:"omitempty,max=500"`
	Status     models.PostStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CategoryID *uuid.UUID        `json:"category_id"`
	Tags       []string          `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

func (req createPostRequest) input() taxonomy.PostInput {
	return taxonomy.PostInput{
		TitleVI:    req.TitleVI,
		TitleEN:    req.TitleEN,
		ExcerptVI:  req.ExcerptVI,
		ExcerptEN:  req.ExcerptEN,
		ContentVI:  req.ContentVI,
		ContentEN:  req.ContentEN,
		Thumbnail:  req.Thumbnail,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	}
}

type updatePostRequest struct {
	TitleVI    *string            `json:"title_vi" validate:"omitempty,max=255"`
	TitleEN    *string            `json:"title_en" validate:"omitempty,max=255"`
	ExcerptVI  *string            `json:"excerpt_vi" validate:"omitempty,max=500"`
	ExcerptEN  *string            `json:"excerpt_en" validate:"omitempty,max=500"`
	ContentVI  *string            `json:"content_vi"`
	ContentEN  *string            `json:"content_en"`
	Thumbnail  *string            `json:"thumbnail" validate:"omitempty,max=500"`
	Status     *models.PostStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CategoryID optionalID         `json:"category_id"`
	Tags       *[]string          `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

func (req updatePostRequest) patch() taxonomy.PostPatch {
	return taxonomy.PostPatch{
		TitleVI:    req.TitleVI,
		TitleEN:    req.TitleEN,
		ExcerptVI:  req.ExcerptVI,
		ExcerptEN:  req.ExcerptEN,
		ContentVI:  req.ContentVI,
		ContentEN:  req.ContentEN,
		Thumbnail:  req.Thumbnail,
		Status:     req.Status,
		CategoryID: req.CategoryID.engine(),
		Tags:       req.Tags,
	}
}
