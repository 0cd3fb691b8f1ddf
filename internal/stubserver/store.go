package stubserver

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// Store estado en memoria del stub. Modela el contrato observable del
// servidor real: cantidades nunca negativas, movimientos append-only y lotes
// de pago todo-o-nada. Protegido con RWMutex porque Fiber atiende requests
// en paralelo.
type Store struct {
	mu sync.RWMutex

	nextID         int64
	inventarios    map[int64]*entity.Inventario
	movimientos    []entity.Movimiento
	lotes          map[int64]*entity.Lote
	ventas         map[int64]*entity.Venta
	pagos          []entity.Pago
	presentaciones map[int64]*entity.Presentacion
	productos      map[int64]*entity.Producto
	lotesPago      map[string]bool // lote_pago_id ya procesados (idempotencia)
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		nextID:         1,
		inventarios:    make(map[int64]*entity.Inventario),
		lotes:          make(map[int64]*entity.Lote),
		ventas:         make(map[int64]*entity.Venta),
		presentaciones: make(map[int64]*entity.Presentacion),
		productos:      make(map[int64]*entity.Producto),
		lotesPago:      make(map[string]bool),
	}
}

func (s *Store) siguienteID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// SeedInventario inserta un registro con ID asignado. Para tests y datos demo.
func (s *Store) SeedInventario(inv entity.Inventario) entity.Inventario {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = s.siguienteID()
	}
	if inv.UltimaActualizacion.IsZero() {
		inv.UltimaActualizacion = time.Now()
	}
	s.inventarios[inv.ID] = &inv
	return inv
}

// SeedLote inserta un lote.
func (s *Store) SeedLote(l entity.Lote) entity.Lote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.siguienteID()
	}
	s.lotes[l.ID] = &l
	return l
}

// SeedVenta inserta una venta.
func (s *Store) SeedVenta(v entity.Venta) entity.Venta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.siguienteID()
	}
	s.ventas[v.ID] = &v
	return v
}

// SeedPresentacion inserta una presentación y su producto si no existe.
func (s *Store) SeedPresentacion(p entity.Presentacion, nombreProducto string) entity.Presentacion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.siguienteID()
	}
	if _, ok := s.productos[p.ProductoID]; !ok && p.ProductoID != 0 {
		s.productos[p.ProductoID] = &entity.Producto{ID: p.ProductoID, Nombre: nombreProducto}
	}
	s.presentaciones[p.ID] = &p
	return p
}

// ListInventario devuelve la página pedida, filtrada por almacén si se pide.
func (s *Store) ListInventario(page repository.Page, almacenID *int64) ([]entity.Inventario, repository.Paginacion) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var todos []entity.Inventario
	for _, inv := range s.inventarios {
		if almacenID != nil && inv.AlmacenID != *almacenID {
			continue
		}
		todos = append(todos, *inv)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return paginar(todos, page)
}

// GetInventario devuelve el registro o ErrNoEncontrado.
func (s *Store) GetInventario(id int64) (*entity.Inventario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventarios[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	copia := *inv
	return &copia, nil
}

// CreateInventario crea el registro si el par (presentación, almacén) no
// existe todavía; si existe devuelve ErrConflicto (a lo sumo uno por par).
func (s *Store) CreateInventario(in repository.InventarioRequest) (*entity.Inventario, error) {
	if in.Cantidad < 0 || in.StockMinimo < 0 {
		return nil, domain.ErrEntradaInvalida
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.inventarios {
		if inv.PresentacionID == in.PresentacionID && inv.AlmacenID == in.AlmacenID {
			return nil, domain.ErrConflicto
		}
	}
	inv := &entity.Inventario{
		ID:                  s.siguienteID(),
		PresentacionID:      in.PresentacionID,
		AlmacenID:           in.AlmacenID,
		LoteID:              in.LoteID,
		Cantidad:            in.Cantidad,
		StockMinimo:         in.StockMinimo,
		UltimaActualizacion: time.Now(),
	}
	s.inventarios[inv.ID] = inv
	copia := *inv
	return &copia, nil
}

// UpdateInventario actualiza stock mínimo y lote. La cantidad no se toca por
// esta vía: toda mutación de cantidad pasa por RegisterMovimiento.
func (s *Store) UpdateInventario(id int64, in repository.InventarioRequest) (*entity.Inventario, error) {
	if in.StockMinimo < 0 {
		return nil, domain.ErrEntradaInvalida
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventarios[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	inv.StockMinimo = in.StockMinimo
	inv.LoteID = in.LoteID
	inv.UltimaActualizacion = time.Now()
	copia := *inv
	return &copia, nil
}

// RegisterMovimiento aplica el movimiento de forma atómica: valida, muta la
// cantidad y deja el registro append-only bajo el mismo lock. Una salida que
// dejaría la cantidad negativa se rechaza sin efecto alguno.
func (s *Store) RegisterMovimiento(in repository.MovimientoRequest) (*entity.Inventario, error) {
	if in.Cantidad <= 0 || in.Motivo == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if in.Tipo != entity.MovimientoEntrada && in.Tipo != entity.MovimientoSalida {
		return nil, domain.ErrEntradaInvalida
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventarios[in.InventarioID]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	if in.Tipo == entity.MovimientoSalida && in.Cantidad > inv.Cantidad {
		return nil, &domain.StockInsuficienteError{
			InventarioID: inv.ID,
			Disponible:   inv.Cantidad,
			Solicitado:   in.Cantidad,
		}
	}

	ahora := time.Now()
	if in.Tipo == entity.MovimientoEntrada {
		inv.Cantidad += in.Cantidad
	} else {
		inv.Cantidad -= in.Cantidad
	}
	inv.UltimaActualizacion = ahora

	s.movimientos = append(s.movimientos, entity.Movimiento{
		ID:             s.siguienteID(),
		InventarioID:   inv.ID,
		PresentacionID: inv.PresentacionID,
		LoteID:         in.LoteID,
		Tipo:           in.Tipo,
		Cantidad:       in.Cantidad,
		Motivo:         in.Motivo,
		Fecha:          ahora,
	})

	copia := *inv
	return &copia, nil
}

// Movimientos devuelve una copia del historial (para asserts en tests).
func (s *Store) Movimientos() []entity.Movimiento {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Movimiento, len(s.movimientos))
	copy(out, s.movimientos)
	return out
}

// ListLotes devuelve la página pedida de lotes.
func (s *Store) ListLotes(page repository.Page) []entity.Lote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var todos []entity.Lote
	for _, l := range s.lotes {
		todos = append(todos, *l)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	pagina, _ := paginarLotes(todos, page)
	return pagina
}

// ListVentasPendientes devuelve ventas con saldo > 0.
func (s *Store) ListVentasPendientes(page repository.Page) []entity.Venta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var todos []entity.Venta
	for _, v := range s.ventas {
		if v.SaldoPendiente.IsPositive() {
			todos = append(todos, *v)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	ini, fin := rangoPagina(len(todos), page)
	return todos[ini:fin]
}

// GetVenta devuelve la venta o ErrNoEncontrado.
func (s *Store) GetVenta(id int64) (*entity.Venta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.ventas[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	copia := *v
	return &copia, nil
}

// lineaPago entrada ya parseada del multipart de pagos.
type lineaPago struct {
	VentaID int64
	Monto   decimal.Decimal
}

// epsilonPago tolerancia de redondeo del servidor, igual que la del cliente.
var epsilonPago = decimal.NewFromFloat(0.001)

// ApplyPaymentBatch aplica el lote completo o nada. Verifica cada venta por
// separado: el total asignado a una venta no puede superar su saldo, aunque
// el agregado del lote sí quepa en el agregado de saldos.
func (s *Store) ApplyPaymentBatch(loteID string, lineas []lineaPago, fecha time.Time, metodo, referencia, comprobante string) ([]entity.Pago, error) {
	if len(lineas) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if loteID != "" && s.lotesPago[loteID] {
		return nil, domain.ErrConflicto
	}

	// Fase de validación completa antes de mutar nada.
	totalPorVenta := make(map[int64]decimal.Decimal)
	for _, l := range lineas {
		if !l.Monto.IsPositive() {
			return nil, domain.ErrEntradaInvalida
		}
		if _, ok := s.ventas[l.VentaID]; !ok {
			return nil, domain.ErrNoEncontrado
		}
		totalPorVenta[l.VentaID] = totalPorVenta[l.VentaID].Add(l.Monto)
	}
	for ventaID, total := range totalPorVenta {
		if total.GreaterThan(s.ventas[ventaID].SaldoPendiente.Add(epsilonPago)) {
			return nil, domain.ErrConflicto
		}
	}

	// Fase de aplicación: ya no puede fallar.
	creados := make([]entity.Pago, 0, len(lineas))
	for _, l := range lineas {
		v := s.ventas[l.VentaID]
		v.SaldoPendiente = v.SaldoPendiente.Sub(l.Monto)
		if v.SaldoPendiente.IsNegative() {
			v.SaldoPendiente = decimal.Zero // solo posible por el epsilon de redondeo
		}
		pago := entity.Pago{
			ID:          s.siguienteID(),
			VentaID:     l.VentaID,
			Monto:       l.Monto,
			Metodo:      metodo,
			Referencia:  referencia,
			Comprobante: comprobante,
			Fecha:       fecha,
		}
		s.pagos = append(s.pagos, pago)
		creados = append(creados, pago)
	}
	if loteID != "" {
		s.lotesPago[loteID] = true
	}
	return creados, nil
}

// Pagos devuelve una copia de los pagos registrados.
func (s *Store) Pagos() []entity.Pago {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Pago, len(s.pagos))
	copy(out, s.pagos)
	return out
}

// ListPresentaciones devuelve la página pedida de presentaciones.
func (s *Store) ListPresentaciones(page repository.Page) []entity.Presentacion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var todos []entity.Presentacion
	for _, p := range s.presentaciones {
		todos = append(todos, *p)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	ini, fin := rangoPagina(len(todos), page)
	return todos[ini:fin]
}

// ListProductos devuelve la página pedida de productos.
func (s *Store) ListProductos(page repository.Page) []entity.Producto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var todos []entity.Producto
	for _, p := range s.productos {
		todos = append(todos, *p)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	ini, fin := rangoPagina(len(todos), page)
	return todos[ini:fin]
}

func paginar(todos []entity.Inventario, page repository.Page) ([]entity.Inventario, repository.Paginacion) {
	page.Normalizar()
	ini, fin := rangoPagina(len(todos), page)
	pages := (len(todos) + page.PerPage - 1) / page.PerPage
	if pages == 0 {
		pages = 1
	}
	return todos[ini:fin], repository.Paginacion{
		Page:    page.Page,
		Pages:   pages,
		PerPage: page.PerPage,
		Total:   len(todos),
	}
}

func paginarLotes(todos []entity.Lote, page repository.Page) ([]entity.Lote, repository.Paginacion) {
	page.Normalizar()
	ini, fin := rangoPagina(len(todos), page)
	pages := (len(todos) + page.PerPage - 1) / page.PerPage
	if pages == 0 {
		pages = 1
	}
	return todos[ini:fin], repository.Paginacion{
		Page:    page.Page,
		Pages:   pages,
		PerPage: page.PerPage,
		Total:   len(todos),
	}
}

func rangoPagina(total int, page repository.Page) (int, int) {
	page.Normalizar()
	ini := (page.Page - 1) * page.PerPage
	if ini > total {
		ini = total
	}
	fin := ini + page.PerPage
	if fin > total {
		fin = total
	}
	return ini, fin
}
