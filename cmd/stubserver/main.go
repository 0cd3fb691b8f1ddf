package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/stubserver"
	"github.com/agroventas/appcore/pkg/config"
	"github.com/agroventas/appcore/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.Stub.Addr()).
		Msg("iniciando stub server")

	store := stubserver.NewStore()
	sembrarDatosDemo(store)

	app := stubserver.NewApp(store)

	go func() {
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			log.Error().Err(err).Msg("stub server finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando stub...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del stub")
	}
	log.Info().Msg("stub detenido")
}

// sembrarDatosDemo carga un catálogo pequeño para desarrollo de la app móvil:
// dos productos con presentaciones, lotes, stock en dos almacenes y ventas
// con saldo pendiente.
func sembrarDatosDemo(store *stubserver.Store) {
	cafe := store.SeedPresentacion(entity.Presentacion{
		ProductoID:  9,
		Nombre:      "Café pergamino 500g",
		ContenidoKg: decimal.NewFromFloat(0.5),
		Precio:      decimal.NewFromInt(18000),
	}, "Café pergamino")
	cacao := store.SeedPresentacion(entity.Presentacion{
		ProductoID:  11,
		Nombre:      "Cacao seco 1kg",
		ContenidoKg: decimal.NewFromInt(1),
		Precio:      decimal.NewFromInt(25000),
	}, "Cacao seco")

	seco := decimal.NewFromFloat(48.2)
	loteCafe := store.SeedLote(entity.Lote{
		ProductoID:           9,
		PesoHumedoKg:         decimal.NewFromFloat(60.0),
		PesoSecoKg:           &seco,
		FechaIngreso:         time.Now().AddDate(0, 0, -14),
		CantidadDisponibleKg: decimal.NewFromFloat(40.0),
	})
	store.SeedLote(entity.Lote{
		ProductoID:           11,
		PesoHumedoKg:         decimal.NewFromFloat(80.0),
		FechaIngreso:         time.Now().AddDate(0, 0, -7),
		CantidadDisponibleKg: decimal.NewFromFloat(75.5),
	})

	loteID := loteCafe.ID
	store.SeedInventario(entity.Inventario{
		PresentacionID: cafe.ID,
		AlmacenID:      1,
		LoteID:         &loteID,
		Cantidad:       10,
		StockMinimo:    5,
	})
	store.SeedInventario(entity.Inventario{
		PresentacionID: cacao.ID,
		AlmacenID:      1,
		Cantidad:       3,
		StockMinimo:    10,
	})
	store.SeedInventario(entity.Inventario{
		PresentacionID: cafe.ID,
		AlmacenID:      2,
		Cantidad:       25,
		StockMinimo:    5,
	})

	store.SeedVenta(entity.Venta{
		ClienteID:      1,
		ClienteNombre:  "Tienda La Esquina",
		Total:          decimal.NewFromFloat(100.00),
		SaldoPendiente: decimal.NewFromFloat(100.00),
		Fecha:          time.Now().AddDate(0, 0, -3),
	})
	store.SeedVenta(entity.Venta{
		ClienteID:      2,
		ClienteNombre:  "Distribuidora Andina",
		Total:          decimal.NewFromFloat(80.00),
		SaldoPendiente: decimal.NewFromFloat(50.00),
		Fecha:          time.Now().AddDate(0, 0, -1),
	})
}
