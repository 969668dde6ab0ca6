package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/papermintx/stylemarket/internal/domain"
)

const maxGalleryFiles = 10

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		qv := r.URL.Query()
		page, _ := strconv.Atoi(qv.Get("page"))
		pageSize, _ := strconv.Atoi(qv.Get("pageSize"))
		f := domain.ProductFilter{Page: page, PageSize: pageSize, Sort: qv.Get("sort"), Query: qv.Get("q")}
		if c := qv.Get("category"); c != "" {
			if id, err := uuid.Parse(c); err == nil {
				f.CategoryID = &id
			}
		}
		// the storefront never sees zero-stock products; admins see all
		f.InStockOnly = !s.isAdmin(r)
		list, total, err := s.products.List(r.Context(), f)
		if err != nil {
			writeJSON(w, 500, map[string]any{"error": "list failed"})
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total})

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		s.apiProductCreate(w, r)

	default:
		http.Error(w, "method", 405)
	}
}

// readImageFile reads one uploaded file, bounded to keep a single request
// from filling the disk.
func readImageFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, 10<<20))
}

func (s *Server) productFromForm(r *http.Request, p *domain.Product) error {
	p.Name = strings.TrimSpace(r.FormValue("name"))
	p.Description = strings.TrimSpace(r.FormValue("description"))
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil || price < 0 {
			return errors.New("invalid price")
		}
		p.Price = price
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return errors.New("invalid stock")
		}
		p.Stock = stock
	}
	if v := r.FormValue("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return errors.New("invalid categoryId")
		}
		p.CategoryID = &id
	}
	return nil
}

func (s *Server) saveGalleryUploads(r *http.Request) ([]domain.GalleryImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["galleries"]
	if len(files) > maxGalleryFiles {
		return nil, errors.New("too many gallery images")
	}
	var imgs []domain.GalleryImage
	for i, fh := range files {
		data, err := readImageFile(fh)
		if err != nil {
			return nil, err
		}
		stored, err := s.storage.SaveImage(r.Context(), fh.Filename, data)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, domain.GalleryImage{URL: stored, SortOrder: i})
	}
	return imgs, nil
}

func (s *Server) apiProductCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		http.Error(w, "multipart", 400)
		return
	}
	p := &domain.Product{}
	if err := s.productFromForm(r, p); err != nil {
		writeJSON(w, 400, map[string]any{"error": err.Error()})
		return
	}
	if p.Name == "" {
		writeJSON(w, 400, map[string]any{"error": "name required"})
		return
	}

	if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
		data, err := readImageFile(fhs[0])
		if err != nil {
			http.Error(w, "image", 400)
			return
		}
		stored, err := s.storage.SaveImage(r.Context(), fhs[0].Filename, data)
		if err != nil {
			writeJSON(w, 500, map[string]any{"error": "storage failed"})
			return
		}
		p.ImageURL = stored
	}
	imgs, err := s.saveGalleryUploads(r)
	if err != nil {
		writeJSON(w, 400, map[string]any{"error": err.Error()})
		return
	}
	p.Galleries = imgs

	if err := s.products.Create(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("create product")
		writeJSON(w, 500, map[string]any{"error": "create failed"})
		return
	}
	writeJSON(w, 201, p)
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		// the storefront looks products up by slug
		if r.Method == http.MethodGet {
			if p, err := s.products.GetBySlug(r.Context(), idStr); err == nil {
				writeJSON(w, 200, p)
				return
			}
		}
		writeJSON(w, 404, map[string]any{"error": "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			writeJSON(w, 404, map[string]any{"error": "not found"})
			return
		}
		writeJSON(w, 200, p)

	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		s.apiProductUpdate(w, r, id)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if err := s.products.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"error": "not found"})
				return
			}
			writeJSON(w, 500, map[string]any{"error": "delete failed"})
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})

	default:
		http.Error(w, "method", 405)
	}
}

// apiProductUpdate applies the multipart form. A new primary image replaces
// the stored file; gallery uploads replace the whole gallery set.
func (s *Server) apiProductUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		http.Error(w, "multipart", 400)
		return
	}
	prev, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, 404, map[string]any{"error": "not found"})
		return
	}
	p := &domain.Product{
		ID:          id,
		Name:        prev.Name,
		Description: prev.Description,
		Price:       prev.Price,
		Stock:       prev.Stock,
		CategoryID:  prev.CategoryID,
		ImageURL:    prev.ImageURL,
	}
	if err := s.productFromForm(r, p); err != nil {
		writeJSON(w, 400, map[string]any{"error": err.Error()})
		return
	}

	newImage := ""
	if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
		data, err := readImageFile(fhs[0])
		if err != nil {
			http.Error(w, "image", 400)
			return
		}
		stored, err := s.storage.SaveImage(r.Context(), fhs[0].Filename, data)
		if err != nil {
			writeJSON(w, 500, map[string]any{"error": "storage failed"})
			return
		}
		newImage = stored
	}
	if err := s.products.Update(r.Context(), p, newImage); err != nil {
		log.Error().Err(err).Str("id", id.String()).Msg("update product")
		writeJSON(w, 500, map[string]any{"error": "update failed"})
		return
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["galleries"]) > 0 {
		imgs, err := s.saveGalleryUploads(r)
		if err != nil {
			writeJSON(w, 400, map[string]any{"error": err.Error()})
			return
		}
		if err := s.products.ReplaceGalleries(r.Context(), id, imgs); err != nil {
			writeJSON(w, 500, map[string]any{"error": "galleries failed"})
			return
		}
	}

	out, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, 500, map[string]any{"error": "reload failed"})
		return
	}
	writeJSON(w, 200, out)
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.categories.List(r.Context())
		if err != nil {
			writeJSON(w, 500, map[string]any{"error": "list failed"})
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var req struct {
			Name string `json:"name" validate:"required,min=1,max=100"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]any{"error": "invalid json"})
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeJSON(w, 400, map[string]any{"error": "name required"})
			return
		}
		c := &domain.Category{Name: strings.TrimSpace(req.Name)}
		if err := s.categories.Save(r.Context(), c); err != nil {
			writeJSON(w, 500, map[string]any{"error": "save failed"})
			return
		}
		writeJSON(w, 201, c)

	default:
		http.Error(w, "method", 405)
	}
}

type checkoutItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Items []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "invalid json"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "invalid order"})
		return
	}

	items := make([]domain.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			writeJSON(w, 400, map[string]any{"error": "invalid productId"})
			return
		}
		items = append(items, domain.CheckoutItem{ProductID: id, Quantity: it.Quantity})
	}

	var customerID *uuid.UUID
	if u := s.readUserSession(r); u != nil && s.customers != nil {
		if c, err := s.customers.FindByEmail(r.Context(), u.Email); err == nil {
			customerID = &c.ID
		}
	}

	o, err := s.checkout.Checkout(r.Context(), items, customerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, 404, map[string]any{"error": "product not found"})
		case errors.Is(err, domain.ErrOutOfStock):
			writeJSON(w, 409, map[string]any{"error": "not enough stock"})
		default:
			log.Error().Err(err).Msg("checkout")
			writeJSON(w, 502, map[string]any{"error": "checkout failed"})
		}
		return
	}
	writeJSON(w, 200, map[string]any{"orderId": o.ID, "total": o.Total, "whatsappUrl": o.RedirectURL})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "invalid json"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "email and password required"})
		return
	}
	tok, role, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeJSON(w, 401, map[string]any{"error": "invalid credentials"})
			return
		}
		writeJSON(w, 500, map[string]any{"error": "login failed"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/", MaxAge: 60 * 60 * 24, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	writeJSON(w, 200, map[string]any{"token": tok, "role": role})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Key      string `json:"key"`
}

func (s *Server) apiRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "invalid json"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, 400, map[string]any{"error": "email and a password of at least 8 characters are required"})
		return
	}
	u, err := s.authUC.Register(r.Context(), req.Email, req.Password, req.Key)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			writeJSON(w, 403, map[string]any{"error": "registration closed"})
		case errors.Is(err, domain.ErrDuplicate):
			writeJSON(w, 409, map[string]any{"error": "email already registered"})
		default:
			writeJSON(w, 400, map[string]any{"error": err.Error()})
		}
		return
	}
	writeJSON(w, 201, map[string]any{"id": u.ID, "email": u.Email, "role": u.Role})
}
