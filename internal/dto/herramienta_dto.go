package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearHerramientaRequest struct {
	Nombre          string          `json:"nombre"           validate:"required,min=2,max=200"`
	Descripcion     *string         `json:"descripcion"      validate:"omitempty,max=500"`
	CategoriaID     *string         `json:"categoria_id"     validate:"omitempty,uuid"`
	Tipo            string          `json:"tipo"             validate:"required,oneof=individual comun"`
	CantidadTotal   int             `json:"cantidad_total"   validate:"required,gt=0"`
	StockMinimo     int             `json:"stock_minimo"     validate:"omitempty,min=0"`
	Ubicacion       string          `json:"ubicacion"        validate:"omitempty,max=200"`
	ValorReposicion decimal.Decimal `json:"valor_reposicion" validate:"omitempty,min=0"`
}

type ActualizarHerramientaRequest struct {
	Nombre          *string          `json:"nombre"           validate:"omitempty,min=2,max=200"`
	Descripcion     *string          `json:"descripcion"      validate:"omitempty,max=500"`
	CategoriaID     *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	CantidadTotal   *int             `json:"cantidad_total"   validate:"omitempty,gt=0"`
	StockMinimo     *int             `json:"stock_minimo"     validate:"omitempty,min=0"`
	Ubicacion       *string          `json:"ubicacion"        validate:"omitempty,max=200"`
	ValorReposicion *decimal.Decimal `json:"valor_reposicion" validate:"omitempty"`
}

// AjustarStockRequest alters cantidad_total by writing an alta_stock /
// baja_stock row to the ledger.
type AjustarStockRequest struct {
	Tipo     string  `json:"tipo"     validate:"required,oneof=alta baja"`
	Cantidad int     `json:"cantidad" validate:"required,gt=0"`
	Motivo   *string `json:"motivo"   validate:"omitempty,max=255"`
}

type HerramientaFilter struct {
	Nombre      string
	CategoriaID string
	Tipo        string
	Activo      string // "", "false", "all"
	Page        int
	Limit       int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type HerramientaResponse struct {
	ID                    string          `json:"id"`
	Nombre                string          `json:"nombre"`
	Descripcion           *string         `json:"descripcion"`
	CategoriaID           *string         `json:"categoria_id"`
	Categoria             *string         `json:"categoria,omitempty"`
	Tipo                  string          `json:"tipo"`
	CantidadTotal         int             `json:"cantidad_total"`
	CantidadDisponible    int             `json:"cantidad_disponible"`
	CantidadEnUso         int             `json:"cantidad_en_uso"`
	CantidadMantenimiento int             `json:"cantidad_mantenimiento"`
	StockMinimo           int             `json:"stock_minimo"`
	Ubicacion             string          `json:"ubicacion"`
	ValorReposicion       decimal.Decimal `json:"valor_reposicion"`
	Activo                bool            `json:"activo"`
}

type HerramientaListResponse struct {
	Data  []HerramientaResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type AlertaStockResponse struct {
	HerramientaID string `json:"herramienta_id"`
	Nombre        string `json:"nombre"`
	Disponible    int    `json:"disponible"`
	StockMinimo   int    `json:"stock_minimo"`
	Ubicacion     string `json:"ubicacion"`
}

// EliminarHerramientaResponse distinguishes a physical delete from a
// soft-delete forced by ledger history.
type EliminarHerramientaResponse struct {
	Eliminada    bool   `json:"eliminada"`
	SoloInactiva bool   `json:"solo_inactiva"`
	Detalle      string `json:"detalle"`
}
