package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MovimientoRequest is the kiosk checkout/checkin envelope. Each call
// re-authenticates with the operario access code — there is no session.
type MovimientoRequest struct {
	HerramientaID  string  `json:"herramienta_id"  validate:"required,uuid"`
	CodigoOperario string  `json:"codigo_operario" validate:"required,numeric,min=4,max=8"`
	Cantidad       int     `json:"cantidad"        validate:"required,gt=0"`
	Proyecto       *string `json:"proyecto"        validate:"omitempty,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	Herramienta string `json:"herramienta"`
	Operario    string `json:"operario"`
	Tipo        string `json:"tipo"`
	Cantidad    int    `json:"cantidad"`
	Disponible  int    `json:"disponible"`
}

type StockSnapshot struct {
	Total         int `json:"cantidad_total"`
	Disponible    int `json:"cantidad_disponible"`
	EnUso         int `json:"cantidad_en_uso"`
	Mantenimiento int `json:"cantidad_mantenimiento"`
}

type ConsultaStockResponse struct {
	HerramientaID string        `json:"herramienta_id"`
	Nombre        string        `json:"nombre"`
	Ubicacion     string        `json:"ubicacion"`
	Stock         StockSnapshot `json:"stock"`
}

type ReconciliacionResponse struct {
	HerramientaID string        `json:"herramienta_id"`
	Nombre        string        `json:"nombre"`
	Antes         StockSnapshot `json:"antes"`
	Despues       StockSnapshot `json:"despues"`
	Corregida     bool          `json:"corregida"`
}
