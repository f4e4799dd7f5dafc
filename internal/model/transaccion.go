package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de transacción del libro de movimientos.
const (
	TransaccionRetiro     = "retiro"
	TransaccionDevolucion = "devolucion"
	TransaccionAltaStock  = "alta_stock"
	TransaccionBajaStock  = "baja_stock"
	// TransaccionMantenimiento está declarado pero ningún camino de escritura
	// lo produce todavía: los movimientos hacia/desde mantenimiento no pasan
	// por el libro.
	TransaccionMantenimiento = "mantenimiento"
)

// Transaccion registra cada movimiento de stock de una herramienta.
// El libro es append-only: las filas nunca se modifican ni se borran, y
// borrar una herramienta u operario con historial no las elimina en cascada.
type Transaccion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HerramientaID uuid.UUID `gorm:"type:uuid;not null;index:idx_transacciones_herr_fecha,priority:1"`
	// OperarioID es nil en ajustes administrativos (alta_stock / baja_stock).
	OperarioID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo       string     `gorm:"type:varchar(20);not null"`
	Cantidad   int        `gorm:"not null"` // siempre positiva; el tipo fija la dirección
	// Snapshot del contador disponible inmediatamente antes/después de esta
	// fila, para auditoría y reconciliación.
	DisponibleAnterior int `gorm:"not null"`
	DisponibleNuevo    int `gorm:"not null"`
	Proyecto           *string
	CreatedAt          time.Time `gorm:"index:idx_transacciones_herr_fecha,priority:2"`

	Herramienta *Herramienta `gorm:"foreignKey:HerramientaID"`
	Operario    *Operario    `gorm:"foreignKey:OperarioID"`
}

// TableName overrides GORM's pluralization (transaccions → transacciones).
func (Transaccion) TableName() string { return "transacciones" }
