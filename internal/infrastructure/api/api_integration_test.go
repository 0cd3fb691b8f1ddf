package api_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/application/inventory"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
	"github.com/agroventas/appcore/internal/infrastructure/api"
	"github.com/agroventas/appcore/internal/stubserver"
	"github.com/agroventas/appcore/pkg/config"
	"github.com/agroventas/appcore/pkg/session"
)

// levantarStub arranca el stub en un puerto efímero y devuelve un cliente
// apuntándole. El stub se apaga al terminar el test.
func levantarStub(t *testing.T) (*api.Client, *stubserver.Store) {
	t.Helper()

	store := stubserver.NewStore()
	app := stubserver.NewApp(store)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	cliente := api.NewClient(config.APIConfig{
		BaseURL: "http://" + ln.Addr().String() + "/api",
		Timeout: 5 * time.Second,
	}, nil, nil)
	return cliente, store
}

func d(s string) decimal.Decimal {
	out, _ := decimal.NewFromString(s)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryAPI_ListFiltraPorAlmacen(t *testing.T) {
	cliente, store := levantarStub(t)
	store.SeedInventario(entity.Inventario{PresentacionID: 7, AlmacenID: 1, Cantidad: 10})
	store.SeedInventario(entity.Inventario{PresentacionID: 9, AlmacenID: 2, Cantidad: 4})

	repo := api.NewInventoryAPI(cliente)
	almacen := int64(1)
	data, pag, err := repo.List(context.Background(), repository.Page{}, &almacen)

	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, int64(7), data[0].PresentacionID)
	require.NotNil(t, pag)
	assert.Equal(t, 1, pag.Total)

	data, pag, err = repo.List(context.Background(), repository.Page{}, nil)
	require.NoError(t, err)
	assert.Len(t, data, 2, "sin filtro devuelve todos los almacenes")
	assert.Equal(t, 2, pag.Total)
}

func TestInventoryAPI_GetByIDNoEncontrado(t *testing.T) {
	cliente, _ := levantarStub(t)
	repo := api.NewInventoryAPI(cliente)

	_, err := repo.GetByID(context.Background(), 999)

	assert.True(t, errors.Is(err, domain.ErrNoEncontrado),
		"el 404 del servidor debe mapearse al sentinela del dominio")
}

func TestInventoryAPI_CreateDuplicadoEsConflicto(t *testing.T) {
	cliente, _ := levantarStub(t)
	repo := api.NewInventoryAPI(cliente)
	ctx := context.Background()

	_, err := repo.Create(ctx, repository.InventarioRequest{PresentacionID: 7, AlmacenID: 1, Cantidad: 10})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.InventarioRequest{PresentacionID: 7, AlmacenID: 1, Cantidad: 5})
	assert.True(t, errors.Is(err, domain.ErrConflicto))
}

func TestInventoryAPI_RegisterMovementRechazadoPorElServidor(t *testing.T) {
	cliente, store := levantarStub(t)
	inv := store.SeedInventario(entity.Inventario{PresentacionID: 7, AlmacenID: 1, Cantidad: 3})
	repo := api.NewInventoryAPI(cliente)

	_, err := repo.RegisterMovement(context.Background(), repository.MovimientoRequest{
		InventarioID: inv.ID, Tipo: entity.MovimientoSalida, Cantidad: 5, Motivo: "venta",
	})

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.CodigoStockInsuficiente, rerr.Codigo)
	assert.True(t, rerr.EsAutoritativo())
	assert.True(t, errors.Is(err, domain.ErrStockInsuficiente))
}

// El servicio de ajustes completo contra el stub: validación local, movimiento
// remoto e invalidación de cache, de punta a punta.
func TestAdjustmentService_ContraElStub(t *testing.T) {
	cliente, store := levantarStub(t)
	inv := store.SeedInventario(entity.Inventario{PresentacionID: 7, AlmacenID: 1, Cantidad: 10})

	repo := api.NewInventoryAPI(cliente)
	cache := inventory.NewStockCache(repo)
	svc := inventory.NewAdjustmentService(repo, cache)
	ctx := context.Background()

	items, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Disponible)

	actualizado, err := svc.Adjust(ctx, dto.AdjustRequest{
		InventarioID: inv.ID, Direccion: dto.DireccionDisminuir, Cantidad: "4", Motivo: "venta mostrador",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, actualizado.Cantidad)

	items, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, items[0].Disponible, "la cache debe reflejar el ajuste")
	require.Len(t, store.Movimientos(), 1)
	assert.Equal(t, entity.MovimientoSalida, store.Movimientos()[0].Tipo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestLotAPI_ListDecodificaDecimales(t *testing.T) {
	cliente, store := levantarStub(t)
	seco := d("300.50")
	store.SeedLote(entity.Lote{ProductoID: 9, PesoHumedoKg: d("500.00"), PesoSecoKg: &seco, CantidadDisponibleKg: d("280.25")})

	lotes, err := api.NewLotAPI(cliente).List(context.Background(), repository.Page{})

	require.NoError(t, err)
	require.Len(t, lotes, 1)
	assert.True(t, lotes[0].PesoHumedoKg.Equal(d("500.00")))
	require.NotNil(t, lotes[0].PesoSecoKg)
	assert.True(t, lotes[0].PesoSecoKg.Equal(d("300.50")))
	assert.True(t, lotes[0].CantidadDisponibleKg.Equal(d("280.25")))
}

func TestLotAPI_ListRechazaLoteInvalido(t *testing.T) {
	cliente, store := levantarStub(t)
	store.SeedLote(entity.Lote{ProductoID: 9, PesoHumedoKg: d("500.00"), CantidadDisponibleKg: d("-1")})

	_, err := api.NewLotAPI(cliente).List(context.Background(), repository.Page{})

	assert.Error(t, err, "un lote con disponibilidad negativa no debe propagarse en silencio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y lote de pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesAPI_LoteDePagosDePuntaAPunta(t *testing.T) {
	cliente, store := levantarStub(t)
	v1 := store.SeedVenta(entity.Venta{Total: d("100.00"), SaldoPendiente: d("100.00")})
	v2 := store.SeedVenta(entity.Venta{Total: d("80.00"), SaldoPendiente: d("50.00")})

	repo := api.NewSalesAPI(cliente)
	ctx := context.Background()

	pendientes, err := repo.ListPendientes(ctx, repository.Page{})
	require.NoError(t, err)
	require.Len(t, pendientes, 2)
	assert.True(t, pendientes[0].SaldoPendiente.Equal(d("100.00")),
		"los montos decimales deben decodificarse exactos")

	loteID := uuid.New()
	pagos, err := repo.SubmitPaymentBatch(ctx, repository.BatchSubmission{
		LoteID: loteID,
		Lineas: []repository.LineaPago{
			{VentaID: v1.ID, Monto: d("100.00")},
			{VentaID: v2.ID, Monto: d("50.00")},
		},
		Fecha:             time.Now(),
		Metodo:            entity.PagoTransferencia,
		Referencia:        "TRF-0091",
		Comprobante:       strings.NewReader("imagen"),
		ComprobanteNombre: "comprobante.jpg",
	})
	require.NoError(t, err)
	assert.Len(t, pagos, 2, "un pago por línea")

	quedo1, err := repo.GetByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.True(t, quedo1.Pagada())

	pendientes, err = repo.ListPendientes(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, pendientes, "ambas ventas quedaron saldadas")

	// Reintento del mismo lote: el servidor lo rechaza sin duplicar pagos.
	_, err = repo.SubmitPaymentBatch(ctx, repository.BatchSubmission{
		LoteID:            loteID,
		Lineas:            []repository.LineaPago{{VentaID: v1.ID, Monto: d("1.00")}},
		Fecha:             time.Now(),
		Metodo:            entity.PagoTransferencia,
		Comprobante:       strings.NewReader("imagen"),
		ComprobanteNombre: "comprobante.jpg",
	})
	assert.True(t, errors.Is(err, domain.ErrConflicto))
	assert.Len(t, store.Pagos(), 2)
}

func TestSalesAPI_LoteExcedidoNoAplicaNada(t *testing.T) {
	cliente, store := levantarStub(t)
	v1 := store.SeedVenta(entity.Venta{Total: d("100.00"), SaldoPendiente: d("100.00")})
	v2 := store.SeedVenta(entity.Venta{Total: d("80.00"), SaldoPendiente: d("50.00")})

	repo := api.NewSalesAPI(cliente)

	_, err := repo.SubmitPaymentBatch(context.Background(), repository.BatchSubmission{
		LoteID: uuid.New(),
		Lineas: []repository.LineaPago{
			{VentaID: v1.ID, Monto: d("100.00")},
			{VentaID: v2.ID, Monto: d("60.00")},
		},
		Fecha:             time.Now(),
		Metodo:            entity.PagoEfectivo,
		Comprobante:       strings.NewReader("imagen"),
		ComprobanteNombre: "comprobante.jpg",
	})

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.CodigoMontoExcedeSaldo, rerr.Codigo)
	assert.Empty(t, store.Pagos(), "el servidor no aplica ninguna línea")

	quedo, err := repo.GetByID(context.Background(), v1.ID)
	require.NoError(t, err)
	assert.True(t, quedo.SaldoPendiente.Equal(d("100.00")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_SesionExpiradaCortaAntesDeLaRed(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "usuario-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	firmado, err := tok.SignedString([]byte("secreto"))
	require.NoError(t, err)

	ses := session.New()
	ses.SetToken(firmado)

	// BaseURL inalcanzable a propósito: la llamada debe cortarse antes.
	cliente := api.NewClient(config.APIConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	}, ses, nil)

	_, _, err = api.NewInventoryAPI(cliente).List(context.Background(), repository.Page{}, nil)
	assert.True(t, errors.Is(err, domain.ErrSesionExpirada),
		"con token vencido no se gasta el round-trip")
}
