package service

import (
	"errors"
	"fmt"
)

// Errores de negocio del motor de inventario. Los handlers los traducen a
// códigos HTTP; los mensajes son el texto por defecto para el cliente.
var (
	ErrOperarioInvalido         = errors.New("codigo de operario invalido o inactivo")
	ErrHerramientaNoEncontrada  = errors.New("herramienta no encontrada")
	ErrOperarioNoEncontrado     = errors.New("operario no encontrado")
	ErrCategoriaNoEncontrada    = errors.New("categoria no encontrada")
	ErrCantidadInvalida         = errors.New("la cantidad debe ser un entero positivo")
	ErrHerramientaEnUso         = errors.New("la herramienta tiene unidades en uso y no puede eliminarse")
	ErrCategoriaConHerramientas = errors.New("la categoria tiene herramientas asociadas y no puede desactivarse")
	ErrCategoriaTipoDistinto    = errors.New("la categoria pertenece a otro tipo de herramienta")
)

// StockInsuficienteError rejects a checkout larger than the available pool.
// Disponible lets the kiosk display "solo N disponibles".
type StockInsuficienteError struct {
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente: solo %d disponibles", e.Disponible)
}

// EnUsoInsuficienteError rejects a checkin larger than what is out in the field.
type EnUsoInsuficienteError struct {
	EnUso int
}

func (e *EnUsoInsuficienteError) Error() string {
	return fmt.Sprintf("devolucion invalida: solo %d en uso", e.EnUso)
}

// DisponibleNegativoError rejects an edit that would push cantidad_disponible
// below zero: the new total cannot be less than the committed units.
type DisponibleNegativoError struct {
	Comprometido int
}

func (e *DisponibleNegativoError) Error() string {
	return fmt.Sprintf("el total no puede ser menor que las %d unidades comprometidas (en uso + mantenimiento)", e.Comprometido)
}
