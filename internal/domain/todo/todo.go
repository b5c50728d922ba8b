package todo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("todo not found")

type Item struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Finished    bool      `json:"finished"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Description string `json:"description" binding:"required,min=5,max=250"`
}

// UpdateRequest applies only the fields that are present in the payload.
type UpdateRequest struct {
	Description *string `json:"description" binding:"omitempty,min=5,max=250"`
	Finished    *bool   `json:"finished"`
}

func NewItem(owner string, req CreateRequest) Item {
	now := time.Now().UTC()

	return Item{
		ID:          uuid.NewString(),
		Description: req.Description,
		Finished:    false,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges a partial update into the item.
func (it *Item) Apply(req UpdateRequest) {
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.Finished != nil {
		it.Finished = *req.Finished
	}
	it.UpdatedAt = time.Now().UTC()
}
