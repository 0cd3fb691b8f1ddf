package stubserver

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp arma la aplicación Fiber del stub con todas las rutas del contrato.
func NewApp(store *Store) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "agroventas-stub",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "agroventas-stub"})
	})

	h := NewHandlers(store)
	api := app.Group("/api")

	inv := api.Group("/inventario")
	inv.Get("/", h.ListInventario)
	inv.Post("/", h.CreateInventario)
	inv.Post("/movimientos", h.RegisterMovimiento)
	inv.Get("/:id", h.GetInventario)
	inv.Put("/:id", h.UpdateInventario)

	api.Get("/lotes", h.ListLotes)

	ventas := api.Group("/ventas")
	ventas.Get("/pendientes", h.ListVentasPendientes)
	ventas.Get("/:id", h.GetVenta)

	api.Post("/pagos/lote", h.SubmitPagosLote)

	api.Get("/presentaciones", h.ListPresentaciones)
	api.Get("/productos", h.ListProductos)

	return app
}
