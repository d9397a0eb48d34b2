package core

import "todocore/pkg/domain"

type (
	Todo        = domain.Todo
	CreateInput = domain.CreateInput
	UpdateInput = domain.UpdateInput
	Store       = domain.Store
)
