// Package models holds fixtures for the goprovider tests.
package models

import "time"

// Role is a string enum.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Priority is a numeric enum.
type Priority int

const (
	PriorityLow  Priority = 1
	PriorityHigh Priority = 2
)

// MaxNameLength is used as an annotation argument.
const MaxNameLength = 64

// ID has no constants and collapses to its basic type.
type ID string

type Entity struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type Audit struct {
	UpdatedBy string `json:"updatedBy,omitempty"`
}

type User struct {
	Entity
	Audit
	Name     string            `json:"name" validate:"required,min=1,max=64"`
	Email    string            `json:"email" validate:"email"`
	Role     Role              `json:"role"`
	Priority Priority          `json:"priority,omitempty"`
	Tags     []string          `json:"tags" validate:"min=1"`
	Avatar   []byte            `json:"avatar,omitempty"`
	Manager  *User             `json:"manager"`
	Labels   map[string]string `json:"labels,omitempty"`
	Score    float64           `json:"score" oas:"minimum=0,maximum=100"`
	Visits   int64             `json:"visits"`
	Extra    any               `json:"extra,omitempty"`
	Secret   string            `json:"-"`
	internal string
}

type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type UserPage struct {
	Page Page[User] `json:"page"`
}

type Event struct {
	Kind string `json:"kind" oas:"enum=created|deleted"`
	At   time.Time
}

// Envelope names its embedded struct, so Entity is a nested property.
type Envelope struct {
	Entity `json:"entity"`
	Note   string `json:"note"`
}

// Redacted drops its embedded struct entirely.
type Redacted struct {
	Audit `json:"-"`
	Note  string `json:"note"`
}
