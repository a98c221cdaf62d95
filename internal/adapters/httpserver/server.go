package httpserver

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/newmobile/internal/domain"
	"github.com/phenrril/newmobile/internal/usecase"
	"github.com/phenrril/newmobile/internal/variant"
)

const visitorCookie = "vsid"

type Server struct {
	mux        *http.ServeMux
	products   *usecase.ProductUC
	sessions   *usecase.VariantSessions
	adminToken string
}

func New(p *usecase.ProductUC, vs *usecase.VariantSessions, adminToken string) http.Handler {
	s := &Server{mux: http.NewServeMux(), products: p, sessions: vs, adminToken: adminToken}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/products", s.apiProducts)
	s.mux.HandleFunc("GET /api/products/{slug}", s.apiProduct)

	// Motor de variantes: una sesión por visitante (cookie vsid)
	s.mux.HandleFunc("GET /api/products/{slug}/variants", s.apiVariants)
	s.mux.HandleFunc("POST /api/products/{slug}/variants/select", s.apiVariantSelect)
	s.mux.HandleFunc("POST /api/products/{slug}/variants/bundle", s.apiVariantBundle)
	s.mux.HandleFunc("POST /api/products/{slug}/variants/reset", s.apiVariantReset)

	s.mux.HandleFunc("POST /admin/import/variants", s.handleAdminImportVariants)
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	if page < 1 {
		page = 1
	}
	list, total, err := s.products.List(r.Context(), domain.ProductFilter{
		Page:     page,
		PageSize: 24,
		Query:    qv.Get("q"),
		Category: qv.Get("category"),
	})
	if err != nil {
		log.Error().Err(err).Msg("listar productos")
		http.Error(w, "list", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "page": page, "items": list})
}

func (s *Server) apiProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProduct(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) loadProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	p, err := s.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			log.Error().Err(err).Str("slug", r.PathValue("slug")).Msg("buscar producto")
			http.Error(w, "prod", http.StatusInternalServerError)
		}
		return nil, false
	}
	return p, true
}

// --- Variantes ---

type optionView struct {
	ID            string             `json:"id,omitempty"`
	Key           string             `json:"key"`
	Price         *decimal.Decimal   `json:"price,omitempty"`
	Stock         int                `json:"stock"`
	InStock       bool               `json:"in_stock"`
	Selected      bool               `json:"selected"`
	StockInfo     *variant.StockInfo `json:"stock_info,omitempty"`
	TimeRemaining *variant.Remaining `json:"time_remaining,omitempty"`
}

type levelView struct {
	Level    string       `json:"level"`
	Selected string       `json:"selected"`
	Options  []optionView `json:"options"`
}

type variantsView struct {
	ProductID string            `json:"product_id"`
	Slug      string            `json:"slug"`
	Selection variant.Selection `json:"selection"`
	Levels    []levelView       `json:"levels"`
	Price     decimal.Decimal   `json:"price"`
	Stock     int               `json:"stock"`
	Bundle    *variant.Bundle   `json:"bundle,omitempty"`
}

func buildView(p *domain.Product, vs *variant.Session) variantsView {
	sel := vs.Selection()
	q := vs.Quote()
	view := variantsView{
		ProductID: p.ID.String(),
		Slug:      p.Slug,
		Selection: sel,
		Levels:    []levelView{},
		Price:     q.Price,
		Stock:     q.Stock,
		Bundle:    vs.Bundle(),
	}
	for _, l := range variant.Levels {
		nodes := vs.DisplayCandidates(l)
		// niveles sin candidatos no se renderizan
		if len(nodes) == 0 {
			break
		}
		lv := levelView{Level: l.String(), Selected: sel.At(l), Options: make([]optionView, 0, len(nodes))}
		for _, n := range nodes {
			o := optionView{ID: n.ID, Key: n.Key, Stock: n.Stock, InStock: n.Stock > 0, Selected: n.Key == sel.At(l)}
			if n.Price.Valid {
				price := n.Price.Decimal
				o.Price = &price
			}
			if l == variant.LevelColor {
				info := vs.StockInfo(n.Key)
				o.StockInfo = &info
				if rem, ok := vs.TimeRemaining(n.Key); ok {
					o.TimeRemaining = &rem
				}
			}
			lv.Options = append(lv.Options, o)
		}
		view.Levels = append(view.Levels, lv)
	}
	return view
}

// visitorID lee la cookie de sesión o emite una nueva.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// withSession carga el producto y corre fn sobre la sesión del visitante.
// fn devuelve el status HTTP; la respuesta es siempre la vista resultante.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(vs *variant.Session) int) {
	p, ok := s.loadProduct(w, r)
	if !ok {
		return
	}
	vid := visitorID(w, r)
	var (
		view   variantsView
		status = http.StatusOK
	)
	s.sessions.With(vid, p, func(vs *variant.Session) {
		if fn != nil {
			status = fn(vs)
		}
		view = buildView(p, vs)
	})
	writeJSON(w, status, view)
}

func (s *Server) apiVariants(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil)
}

func (s *Server) apiVariantSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level"`
		Key   string `json:"key"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "json", http.StatusBadRequest)
		return
	}
	level, ok := variant.ParseLevel(req.Level)
	if !ok {
		http.Error(w, "level", http.StatusBadRequest)
		return
	}
	s.withSession(w, r, func(vs *variant.Session) int {
		if !vs.SelectAt(level, strings.TrimSpace(req.Key)) {
			return http.StatusConflict
		}
		return http.StatusOK
	})
}

func (s *Server) apiVariantBundle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price   *decimal.Decimal `json:"price"`
		Foreign bool             `json:"foreign"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "json", http.StatusBadRequest)
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		http.Error(w, "price", http.StatusBadRequest)
		return
	}
	s.withSession(w, r, func(vs *variant.Session) int {
		if req.Price == nil {
			vs.SetBundle(nil)
		} else {
			vs.SetBundle(&variant.Bundle{Price: *req.Price, Foreign: req.Foreign})
		}
		return http.StatusOK
	})
}

func (s *Server) apiVariantReset(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	s.withSession(w, r, func(vs *variant.Session) int {
		if key == "" {
			vs.ResetAllVariants()
		} else {
			vs.ResetVariant(key)
		}
		return http.StatusOK
	})
}

// --- Admin ---

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	tok := r.Header.Get("X-Admin-Token")
	if s.adminToken == "" || !secureCompare(tok, s.adminToken) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func secureCompare(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

func (s *Server) handleAdminImportVariants(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		http.Error(w, "slug", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "multipart", http.StatusBadRequest)
		return
	}
	fh := r.MultipartForm.File["file"]
	if len(fh) == 0 {
		http.Error(w, "file", http.StatusBadRequest)
		return
	}
	f, err := fh[0].Open()
	if err != nil {
		http.Error(w, "file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	stats, err := s.products.ImportVariants(r.Context(), slug, f)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("importar variantes")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "stats": stats})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "stats": stats})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
