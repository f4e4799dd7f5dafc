package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Herramienta is a stock-keeping unit: a *type* of tool with quantity,
// not a single physical item. The four counters always satisfy
// cantidad_total = disponible + en_uso + mantenimiento while the system
// is consistent; drift is repaired by the reconciliation service.
type Herramienta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	// Tipo: "individual" (asignada a un operario a la vez) | "comun" (pool compartido).
	// Es solo clasificación: la aritmética de cantidades es idéntica.
	Tipo                  string `gorm:"type:varchar(20);not null;default:'comun'"`
	CantidadTotal         int    `gorm:"not null;default:0"`
	CantidadDisponible    int    `gorm:"not null;default:0"`
	CantidadEnUso         int    `gorm:"not null;default:0"`
	CantidadMantenimiento int    `gorm:"not null;default:0"`
	// StockMinimo solo dispara alertas; no bloquea retiros.
	StockMinimo     int `gorm:"not null;default:1"`
	Ubicacion       string
	ValorReposicion decimal.Decimal `gorm:"type:decimal(10,2)"`
	Activo          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Herramienta) TableName() string { return "herramientas" }
