package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearOperarioRequest struct {
	Nombre string  `json:"nombre" validate:"required,min=2,max=100"`
	Email  *string `json:"email"  validate:"omitempty,email"`
}

type ActualizarOperarioRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Activo *bool   `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// OperarioResponse exposes the access code: the back office prints it for
// the worker. The kiosk flow never returns it.
type OperarioResponse struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"nombre"`
	Email        *string `json:"email"`
	CodigoAcceso string  `json:"codigo_acceso"`
	Activo       bool    `json:"activo"`
}

type EliminarOperarioResponse struct {
	Eliminado    bool   `json:"eliminado"`
	SoloInactivo bool   `json:"solo_inactivo"`
	Detalle      string `json:"detalle"`
}
