package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies herramientas, scoped by tool kind: a category is
// either for individual tools or for common-pool tools, never both.
type Categoria struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex:idx_categorias_nombre_tipo;not null"`
	Tipo   string    `gorm:"type:varchar(20);uniqueIndex:idx_categorias_nombre_tipo;not null"` // "individual" | "comun"
	Color  string    `gorm:"type:varchar(7);not null;default:'#2563eb'"`
	Activo bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
