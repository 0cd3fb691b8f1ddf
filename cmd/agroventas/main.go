// agroventas es la CLI de desarrollo del núcleo móvil: ejercita los mismos
// servicios que usa la app (ajustes de inventario, stock por almacén, lotes
// elegibles y pagos por lote) contra un servidor real o el stub local.
//
// Uso:
//
//	agroventas stock -almacen 1
//	agroventas ajustar -inventario 3 -direccion disminuir -cantidad 2 -motivo "producto dañado"
//	agroventas lotes -presentacion 1
//	agroventas pendientes
//	agroventas pagar -lineas "1=100.00,2=50.00" -metodo transferencia -comprobante recibo.jpg
//	agroventas bajo-minimo [-almacen 1]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agroventas/appcore/internal/application/catalog"
	"github.com/agroventas/appcore/internal/application/dto"
	appinv "github.com/agroventas/appcore/internal/application/inventory"
	"github.com/agroventas/appcore/internal/application/payments"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/repository"
	"github.com/agroventas/appcore/internal/infrastructure/api"
	"github.com/agroventas/appcore/pkg/config"
	"github.com/agroventas/appcore/pkg/logger"
	"github.com/agroventas/appcore/pkg/session"
)

func main() {
	if len(os.Args) < 2 {
		uso()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fallar("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ses := session.New()
	if tok := os.Getenv("API_TOKEN"); tok != "" {
		ses.SetToken(tok)
	}
	cliente := api.NewClient(cfg.API, ses, log)
	ctx := context.Background()

	var runErr error
	switch os.Args[1] {
	case "stock":
		runErr = cmdStock(ctx, cliente, os.Args[2:])
	case "ajustar":
		runErr = cmdAjustar(ctx, cliente, os.Args[2:])
	case "lotes":
		runErr = cmdLotes(ctx, cliente, os.Args[2:])
	case "pendientes":
		runErr = cmdPendientes(ctx, cliente)
	case "pagar":
		runErr = cmdPagar(ctx, cliente, os.Args[2:])
	case "bajo-minimo":
		runErr = cmdBajoMinimo(ctx, cliente, os.Args[2:])
	default:
		uso()
		os.Exit(2)
	}

	if runErr != nil {
		reportar(runErr)
		os.Exit(1)
	}
}

func uso() {
	fmt.Fprintln(os.Stderr, "uso: agroventas <stock|ajustar|lotes|pendientes|pagar|bajo-minimo> [flags]")
}

func fallar(formato string, args ...any) {
	fmt.Fprintf(os.Stderr, formato+"\n", args...)
	os.Exit(1)
}

// reportar imprime errores de validación campo a campo; el resto tal cual.
func reportar(err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, c := range verr.Campos {
			fmt.Fprintf(os.Stderr, "  %s [%s]: %s\n", c.Campo, c.Codigo, c.Mensaje)
		}
		return
	}
	var lerr *payments.ErrorDeLote
	if errors.As(err, &lerr) {
		for _, c := range lerr.Campos {
			fmt.Fprintf(os.Stderr, "  %s [%s]: %s\n", c.Campo, c.Codigo, c.Mensaje)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func cmdStock(ctx context.Context, cliente *api.Client, args []string) error {
	fs := flag.NewFlagSet("stock", flag.ExitOnError)
	almacen := fs.Int64("almacen", 0, "ID del almacén (requerido)")
	_ = fs.Parse(args)
	if *almacen == 0 {
		return errors.New("falta -almacen")
	}

	cache := appinv.NewStockCache(api.NewInventoryAPI(cliente))
	items, err := cache.Get(ctx, *almacen)
	if err != nil {
		return err
	}
	fmt.Printf("almacén %d: %d presentaciones\n", *almacen, len(items))
	for _, it := range items {
		fmt.Printf("  presentación %-4d disponible %d\n", it.PresentacionID, it.Disponible)
	}
	return nil
}

func cmdAjustar(ctx context.Context, cliente *api.Client, args []string) error {
	fs := flag.NewFlagSet("ajustar", flag.ExitOnError)
	inventario := fs.Int64("inventario", 0, "ID del registro de inventario")
	direccion := fs.String("direccion", "", "aumentar | disminuir")
	cantidad := fs.String("cantidad", "", "cantidad entera positiva")
	motivo := fs.String("motivo", "", "motivo del ajuste")
	lote := fs.Int64("lote", 0, "ID del lote (opcional)")
	_ = fs.Parse(args)

	repo := api.NewInventoryAPI(cliente)
	svc := appinv.NewAdjustmentService(repo, appinv.NewStockCache(repo))

	req := dto.AdjustRequest{
		InventarioID: *inventario,
		Direccion:    *direccion,
		Cantidad:     *cantidad,
		Motivo:       *motivo,
	}
	if *lote != 0 {
		req.LoteID = lote
	}
	inv, err := svc.Adjust(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("inventario %d ajustado: cantidad %d (actualizado %s)\n",
		inv.ID, inv.Cantidad, inv.UltimaActualizacion.Format("15:04:05"))
	if inv.BajoStockMinimo() {
		fmt.Printf("  aviso: bajo stock mínimo (%d)\n", inv.StockMinimo)
	}
	return nil
}

func cmdLotes(ctx context.Context, cliente *api.Client, args []string) error {
	fs := flag.NewFlagSet("lotes", flag.ExitOnError)
	presentacion := fs.Int64("presentacion", 0, "ID de la presentación elegida (requerido)")
	_ = fs.Parse(args)
	if *presentacion == 0 {
		return errors.New("falta -presentacion")
	}

	busqueda := catalog.NewSearchUseCase(api.NewCatalogAPI(cliente))
	productoID, err := busqueda.ProductoDe(ctx, *presentacion)
	if err != nil {
		return err
	}

	lotes, err := api.NewLotAPI(cliente).List(ctx, repository.Page{Page: 1, PerPage: 100})
	if err != nil {
		return err
	}
	elegibles := appinv.EligibleLots(productoID, lotes)
	if len(elegibles) == 0 {
		fmt.Println("ningún lote disponible para este producto")
		return nil
	}
	for _, l := range elegibles {
		fmt.Printf("  lote %-4d disponible %s kg (ingreso %s)\n",
			l.ID, l.CantidadDisponibleKg.StringFixed(1), l.FechaIngreso.Format("2006-01-02"))
	}
	return nil
}

func cmdPendientes(ctx context.Context, cliente *api.Client) error {
	ventas, err := api.NewSalesAPI(cliente).ListPendientes(ctx, repository.Page{Page: 1, PerPage: 100})
	if err != nil {
		return err
	}
	for _, v := range ventas {
		fmt.Printf("  venta %-4d %-24s saldo %s\n", v.ID, v.ClienteNombre, v.SaldoPendiente.StringFixed(2))
	}
	return nil
}

func cmdPagar(ctx context.Context, cliente *api.Client, args []string) error {
	fs := flag.NewFlagSet("pagar", flag.ExitOnError)
	lineas := fs.String("lineas", "", `líneas venta=monto separadas por coma, ej. "1=100.00,2=50.00"`)
	fecha := fs.String("fecha", "", "fecha del pago (AAAA-MM-DD, vacío = hoy)")
	metodo := fs.String("metodo", "transferencia", "efectivo | transferencia | cheque")
	referencia := fs.String("referencia", "", "referencia del pago (opcional)")
	comprobante := fs.String("comprobante", "", "ruta del archivo comprobante")
	_ = fs.Parse(args)

	req := dto.BatchRequest{
		Fecha:      *fecha,
		Metodo:     *metodo,
		Referencia: *referencia,
	}
	for _, parte := range strings.Split(*lineas, ",") {
		parte = strings.TrimSpace(parte)
		if parte == "" {
			continue
		}
		kv := strings.SplitN(parte, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("línea malformada %q (use venta=monto)", parte)
		}
		ventaID, err := strconv.ParseInt(kv[0], 10, 64)
		if err != nil {
			return fmt.Errorf("venta inválida en %q", parte)
		}
		req.Lineas = append(req.Lineas, dto.LineaBatch{VentaID: ventaID, Monto: kv[1]})
	}

	if *comprobante != "" {
		f, err := os.Open(*comprobante)
		if err != nil {
			return fmt.Errorf("abrir comprobante: %w", err)
		}
		defer f.Close()
		req.Comprobante = f
		req.ComprobanteNombre = filepath.Base(*comprobante)
	}

	ventasAPI := api.NewSalesAPI(cliente)
	ventas, err := ventasAPI.ListPendientes(ctx, repository.Page{Page: 1, PerPage: 100})
	if err != nil {
		return err
	}

	resultado, err := payments.NewBatchAllocator(ventasAPI).SubmitBatch(ctx, req, ventas)
	if err != nil {
		return err
	}
	fmt.Printf("lote %s aceptado: %d pagos creados\n", resultado.LoteID, len(resultado.Pagos))
	for _, p := range resultado.Pagos {
		fmt.Printf("  venta %-4d pagado %s\n", p.VentaID, p.Monto.StringFixed(2))
	}
	return nil
}

func cmdBajoMinimo(ctx context.Context, cliente *api.Client, args []string) error {
	fs := flag.NewFlagSet("bajo-minimo", flag.ExitOnError)
	almacen := fs.Int64("almacen", 0, "ID del almacén (0 = todos)")
	_ = fs.Parse(args)

	var almacenID *int64
	if *almacen != 0 {
		almacenID = almacen
	}
	items, err := appinv.NewLowStockUseCase(api.NewInventoryAPI(cliente)).Generate(ctx, almacenID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("ningún registro bajo stock mínimo")
		return nil
	}
	for _, it := range items {
		fmt.Printf("  inventario %-4d almacén %-3d disponible %d / mínimo %d\n",
			it.InventarioID, it.AlmacenID, it.Disponible, it.StockMinimo)
	}
	return nil
}
