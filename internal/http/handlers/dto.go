package handlers

import (
	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
)

type UserResponse struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Roles            []string `json:"roles"`
	EmailActivatedAt *int64   `json:"emailActivatedAt"` // epoch millis, null until activated
}

func toUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		Name:  u.Name,
		Email: u.Email,
		Roles: u.Roles,
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if u.EmailActivatedAt != nil {
		ms := u.EmailActivatedAt.UnixMilli()
		resp.EmailActivatedAt = &ms
	}
	return resp
}

type TodoResponse struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Finished    bool         `json:"finished"`
	Owner       UserResponse `json:"owner"`
}

func toTodoResponse(it todo.Item, owner user.User) TodoResponse {
	return TodoResponse{
		ID:          it.ID,
		Description: it.Description,
		Finished:    it.Finished,
		Owner:       toUserResponse(owner),
	}
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// PageResponse reports page 1-based while the page query parameter is 0-based.
type PageResponse[T any] struct {
	Page   int    `json:"page"`
	Pages  int    `json:"pages"`
	Total  int    `json:"total"`
	Items  []T    `json:"items"`
	Sort   string `json:"sort"`
	SortBy string `json:"sortBy"`
}

func toPageResponse[S, T any](p paging.Page[S], conv func(S) T) PageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}

	return PageResponse[T]{
		Page:   p.Page + 1,
		Pages:  p.Pages(),
		Total:  p.Total,
		Items:  items,
		Sort:   "asc",
		SortBy: "createdAt",
	}
}
