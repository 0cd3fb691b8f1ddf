package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agroventas/appcore/internal/domain"
)

// validate instancia única de go-playground/validator para los DTOs de entrada.
// Los nombres de campo reportados salen del tag json para que la UI pueda
// mapearlos directamente a sus inputs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidarEstructura corre las reglas de tag del struct y devuelve todas las
// violaciones como campos inválidos del dominio (nunca un error genérico).
func ValidarEstructura(in any) []domain.CampoInvalido {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []domain.CampoInvalido{{Campo: "", Codigo: domain.CodigoEntradaInvalida, Mensaje: err.Error()}}
	}
	campos := make([]domain.CampoInvalido, 0, len(verrs))
	for _, fe := range verrs {
		campos = append(campos, domain.CampoInvalido{
			Campo:   fe.Field(),
			Codigo:  codigoParaTag(fe.Tag()),
			Mensaje: mensajeParaTag(fe),
		})
	}
	return campos
}

func codigoParaTag(tag string) string {
	switch tag {
	case "required":
		return domain.CodigoCampoRequerido
	case "gt", "gte", "lt", "lte", "oneof":
		return domain.CodigoEntradaInvalida
	default:
		return domain.CodigoEntradaInvalida
	}
}

func mensajeParaTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo requerido"
	case "oneof":
		return "valor fuera del conjunto permitido: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}
