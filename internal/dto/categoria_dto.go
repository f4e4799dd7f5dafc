package dto

import "github.com/google/uuid"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Tipo   string `json:"tipo"   validate:"required,oneof=individual comun"`
	Color  string `json:"color"  validate:"omitempty,hexcolor"`
}

type ActualizarCategoriaRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Color  *string `json:"color"  validate:"omitempty,hexcolor"`
	Activo *bool   `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Tipo   string    `json:"tipo"`
	Color  string    `json:"color"`
	Activo bool      `json:"activo"`
}
