package dto

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TransaccionResponse is a read projection of one ledger row joined with
// display fields of the tool and the operario.
type TransaccionResponse struct {
	ID                 string  `json:"id"`
	Herramienta        string  `json:"herramienta"`
	Ubicacion          string  `json:"ubicacion"`
	Operario           *string `json:"operario"`
	Tipo               string  `json:"tipo"`
	Cantidad           int     `json:"cantidad"`
	DisponibleAnterior int     `json:"disponible_anterior"`
	DisponibleNuevo    int     `json:"disponible_nuevo"`
	Proyecto           *string `json:"proyecto"`
	CreatedAt          string  `json:"created_at"`
}

// ResumenTipoResponse aggregates in-use and cumulative-returned quantity
// per tool kind, for dashboard counters.
type ResumenTipoResponse struct {
	TipoHerramienta string `json:"tipo_herramienta"`
	EnUso           int    `json:"en_uso"`
	Devueltas       int    `json:"devueltas"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SolicitarReporteRequest enqueues the async PDF report job.
type SolicitarReporteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=500"`
}
