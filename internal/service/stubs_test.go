package service_test

import (
	"context"
	"strings"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/dto"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so services run their closures
// outside a real transaction.

type stubHerramientaRepo struct {
	herramientas map[uuid.UUID]*model.Herramienta
}

func newStubHerramientaRepo() *stubHerramientaRepo {
	return &stubHerramientaRepo{herramientas: make(map[uuid.UUID]*model.Herramienta)}
}

func (r *stubHerramientaRepo) Create(_ context.Context, h *model.Herramienta) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.herramientas[h.ID] = h
	return nil
}

func (r *stubHerramientaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Herramienta, error) {
	h, ok := r.herramientas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

func (r *stubHerramientaRepo) List(_ context.Context, filter dto.HerramientaFilter) ([]model.Herramienta, int64, error) {
	var out []model.Herramienta
	for _, h := range r.herramientas {
		if filter.Activo != "all" && filter.Activo != "false" && !h.Activo {
			continue
		}
		if filter.Activo == "false" && h.Activo {
			continue
		}
		if filter.Tipo != "" && h.Tipo != filter.Tipo {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(h.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}

func (r *stubHerramientaRepo) ListBajoStock(_ context.Context) ([]model.Herramienta, error) {
	var out []model.Herramienta
	for _, h := range r.herramientas {
		if h.Activo && h.CantidadDisponible < h.StockMinimo {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubHerramientaRepo) Update(_ context.Context, h *model.Herramienta) error {
	r.herramientas[h.ID] = h
	return nil
}

func (r *stubHerramientaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	h, ok := r.herramientas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.Activo = false
	return nil
}

func (r *stubHerramientaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.herramientas, id)
	return nil
}

func (r *stubHerramientaRepo) CountByCategoria(_ context.Context, categoriaID uuid.UUID) (int64, error) {
	var count int64
	for _, h := range r.herramientas {
		if h.Activo && h.CategoriaID != nil && *h.CategoriaID == categoriaID {
			count++
		}
	}
	return count, nil
}

func (r *stubHerramientaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Herramienta, error) {
	h, ok := r.herramientas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

func (r *stubHerramientaRepo) UpdateCantidadesTx(_ *gorm.DB, id uuid.UUID, cantidades map[string]interface{}) error {
	h, ok := r.herramientas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := cantidades["cantidad_total"]; ok {
		h.CantidadTotal = v.(int)
	}
	if v, ok := cantidades["cantidad_disponible"]; ok {
		h.CantidadDisponible = v.(int)
	}
	if v, ok := cantidades["cantidad_en_uso"]; ok {
		h.CantidadEnUso = v.(int)
	}
	if v, ok := cantidades["cantidad_mantenimiento"]; ok {
		h.CantidadMantenimiento = v.(int)
	}
	return nil
}

func (r *stubHerramientaRepo) DB() *gorm.DB { return nil }

var _ repository.HerramientaRepository = (*stubHerramientaRepo)(nil)

// stubTransaccionRepo is the in-memory append-only ledger.
type stubTransaccionRepo struct {
	transacciones []model.Transaccion
}

func (r *stubTransaccionRepo) Create(_ context.Context, t *model.Transaccion) error {
	return r.CreateTx(nil, t)
}

func (r *stubTransaccionRepo) CreateTx(_ *gorm.DB, t *model.Transaccion) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transacciones = append(r.transacciones, *t)
	return nil
}

func (r *stubTransaccionRepo) Recientes(_ context.Context, limit int) ([]model.Transaccion, error) {
	if limit < 1 || limit > len(r.transacciones) {
		limit = len(r.transacciones)
	}
	out := make([]model.Transaccion, 0, limit)
	for i := len(r.transacciones) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.transacciones[i])
	}
	return out, nil
}

func (r *stubTransaccionRepo) List(_ context.Context, filter repository.TransaccionFilter) ([]model.Transaccion, int64, error) {
	var out []model.Transaccion
	for _, t := range r.transacciones {
		if filter.HerramientaID != nil && t.HerramientaID != *filter.HerramientaID {
			continue
		}
		if filter.OperarioID != nil && (t.OperarioID == nil || *t.OperarioID != *filter.OperarioID) {
			continue
		}
		if filter.Tipo != "" && t.Tipo != filter.Tipo {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransaccionRepo) SumPorTipo(_ context.Context, herramientaID uuid.UUID) (repository.SumasPorTipo, error) {
	return r.SumPorTipoTx(nil, herramientaID)
}

func (r *stubTransaccionRepo) SumPorTipoTx(_ *gorm.DB, herramientaID uuid.UUID) (repository.SumasPorTipo, error) {
	var sumas repository.SumasPorTipo
	for _, t := range r.transacciones {
		if t.HerramientaID != herramientaID {
			continue
		}
		switch t.Tipo {
		case model.TransaccionRetiro:
			sumas.Retiros += t.Cantidad
		case model.TransaccionDevolucion:
			sumas.Devoluciones += t.Cantidad
		}
	}
	return sumas, nil
}

func (r *stubTransaccionRepo) CountByHerramienta(_ context.Context, herramientaID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.transacciones {
		if t.HerramientaID == herramientaID {
			count++
		}
	}
	return count, nil
}

func (r *stubTransaccionRepo) CountByOperario(_ context.Context, operarioID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.transacciones {
		if t.OperarioID != nil && *t.OperarioID == operarioID {
			count++
		}
	}
	return count, nil
}

func (r *stubTransaccionRepo) ResumenPorTipoHerramienta(_ context.Context) ([]repository.ResumenTipo, error) {
	return nil, nil
}

var _ repository.TransaccionRepository = (*stubTransaccionRepo)(nil)

// stubOperarioRepo matches access codes against active operarios only,
// mirroring the SQL predicate.
type stubOperarioRepo struct {
	operarios map[uuid.UUID]*model.Operario
}

func newStubOperarioRepo() *stubOperarioRepo {
	return &stubOperarioRepo{operarios: make(map[uuid.UUID]*model.Operario)}
}

func (r *stubOperarioRepo) Create(_ context.Context, o *model.Operario) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.operarios[o.ID] = o
	return nil
}

func (r *stubOperarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operario, error) {
	o, ok := r.operarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOperarioRepo) FindByCodigo(_ context.Context, codigo string) (*model.Operario, error) {
	for _, o := range r.operarios {
		if o.CodigoAcceso == codigo && o.Activo {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOperarioRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, o := range r.operarios {
		if o.CodigoAcceso == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOperarioRepo) List(_ context.Context) ([]model.Operario, error) {
	var out []model.Operario
	for _, o := range r.operarios {
		if o.Activo {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOperarioRepo) ListAll(_ context.Context) ([]model.Operario, error) {
	var out []model.Operario
	for _, o := range r.operarios {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOperarioRepo) Update(_ context.Context, o *model.Operario) error {
	r.operarios[o.ID] = o
	return nil
}

func (r *stubOperarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	o, ok := r.operarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Activo = false
	return nil
}

func (r *stubOperarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.operarios, id)
	return nil
}

var _ repository.OperarioRepository = (*stubOperarioRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context, tipo string) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		if !c.Activo {
			continue
		}
		if tipo != "" && c.Tipo != tipo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombreYTipo(_ context.Context, nombre, tipo string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if strings.EqualFold(c.Nombre, nombre) && c.Tipo == tipo {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	c, ok := r.categorias[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedHerramienta(repo *stubHerramientaRepo, nombre string, total, disponible, enUso, mantenimiento, minimo int) *model.Herramienta {
	h := &model.Herramienta{
		ID:                    uuid.New(),
		Nombre:                nombre,
		Tipo:                  "comun",
		CantidadTotal:         total,
		CantidadDisponible:    disponible,
		CantidadEnUso:         enUso,
		CantidadMantenimiento: mantenimiento,
		StockMinimo:           minimo,
		Activo:                true,
	}
	repo.herramientas[h.ID] = h
	return h
}

func seedOperario(repo *stubOperarioRepo, nombre, codigo string, activo bool) *model.Operario {
	o := &model.Operario{
		ID:           uuid.New(),
		Nombre:       nombre,
		CodigoAcceso: codigo,
		Activo:       activo,
	}
	repo.operarios[o.ID] = o
	return o
}
