package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]*Customer, error)
}

type CreateCustomerRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
}

type ListCustomersRequest struct {
	ClientID string `form:"client_id"`
	City     string `form:"city"`
	Province string `form:"province"`
}

var (
	ErrNotFound      = errors.New("customer_not_found")
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
)
