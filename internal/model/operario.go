package model

import (
	"time"

	"github.com/google/uuid"
)

// Operario is a field-worker identity. Movements authenticate with the
// short numeric CodigoAcceso on every call (walk-up PIN pad, no session);
// the code is an identification token, not a cryptographic secret.
type Operario struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"not null"`
	Email  *string   `gorm:"uniqueIndex"`
	// CodigoAcceso: 4 dígitos por defecto, único. Se genera al crear el
	// operario y puede regenerarse a demanda.
	CodigoAcceso string `gorm:"uniqueIndex;not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
