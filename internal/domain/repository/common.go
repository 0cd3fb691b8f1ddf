package repository

// Page parámetros de paginación para listados (espejo de page/per_page del API).
type Page struct {
	Page    int
	PerPage int
}

// Normalizar aplica valores por defecto si Page/PerPage son cero.
func (p *Page) Normalizar() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
}

// Paginacion metadatos de página que devuelve el servidor.
type Paginacion struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}
