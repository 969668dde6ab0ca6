package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/papermintx/stylemarket/internal/auth"
	"github.com/papermintx/stylemarket/internal/detail"
	"github.com/papermintx/stylemarket/internal/domain"
	"github.com/papermintx/stylemarket/internal/imgurl"
	"github.com/papermintx/stylemarket/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	tmpl       *template.Template
	products   *usecase.ProductUC
	checkout   *usecase.CheckoutUC
	authUC     *usecase.AuthUC
	categories domain.CategoryRepo
	featured   domain.FeaturedProductRepo
	storage    domain.FileStorage
	customers  domain.CustomerRepo
	oauthCfg   *oauth2.Config
	tokens     *auth.Manager
	resolver   *imgurl.Resolver
	validate   *validator.Validate

	sessionKey []byte
	uploadsDir string
}

type Options struct {
	Templates  *template.Template
	Products   *usecase.ProductUC
	Checkout   *usecase.CheckoutUC
	Auth       *usecase.AuthUC
	Categories domain.CategoryRepo
	Featured   domain.FeaturedProductRepo
	Storage    domain.FileStorage
	Customers  domain.CustomerRepo
	OAuth      *oauth2.Config
	Tokens     *auth.Manager
	Resolver   *imgurl.Resolver
	SessionKey string
	UploadsDir string
	CORS       []string
}

func New(o Options) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		tmpl:       o.Templates,
		products:   o.Products,
		checkout:   o.Checkout,
		authUC:     o.Auth,
		categories: o.Categories,
		featured:   o.Featured,
		storage:    o.Storage,
		customers:  o.Customers,
		oauthCfg:   o.OAuth,
		tokens:     o.Tokens,
		resolver:   o.Resolver,
		validate:   validator.New(),
		sessionKey: []byte(o.SessionKey),
		uploadsDir: o.UploadsDir,
	}
	if s.uploadsDir == "" {
		s.uploadsDir = "uploads"
	}
	s.routes()

	c := cors.New(cors.Options{
		AllowedOrigins:   o.CORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})

	return Chain(s.mux,
		RateLimit(120),
		SecurityAndStaticCache,
		Gzip,
		RequestID,
		Recovery,
		Logging,
		c.Handler,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))

	s.mux.HandleFunc("/robots.txt", s.handleRobots)
	s.mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/marketplace", s.handleMarketplace)
	s.mux.HandleFunc("/product/", s.handleProduct)

	s.mux.HandleFunc("/login", s.handleLoginPage)
	s.mux.HandleFunc("/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("/admin/export/xlsx", s.handleExportXLSX)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)
	s.mux.HandleFunc("/api/categories", s.apiCategories)
	s.mux.HandleFunc("/api/orders/checkout", s.apiCheckout)
	s.mux.HandleFunc("/api/auth/login", s.apiLogin)
	s.mux.HandleFunc("/api/auth/register", s.apiRegister)
}

// --- page handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.renderNotFound(w)
		return
	}
	var list []domain.Product
	if s.featured != nil {
		if got, err := s.featured.GetWithProducts(r.Context()); err == nil && len(got) > 0 {
			list = got
		}
	}
	if len(list) == 0 {
		got, _, err := s.products.List(r.Context(), domain.ProductFilter{Page: 1, PageSize: 8, Sort: "newest", InStockOnly: true})
		if err != nil {
			http.Error(w, "err", 500)
			return
		}
		list = got
	}
	base := s.canonicalBase(r)
	data := map[string]any{"Products": list, "CanonicalURL": base + "/"}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "home.html", data)
}

func (s *Server) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	if page < 1 {
		page = 1
	}
	f := domain.ProductFilter{
		Page:        page,
		PageSize:    24,
		Sort:        qv.Get("sort"),
		Query:       qv.Get("q"),
		InStockOnly: true,
	}
	if c := qv.Get("category"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.CategoryID = &id
		}
	}
	list, total, _ := s.products.List(r.Context(), f)
	pages := (int(total) + 23) / 24
	if pages == 0 {
		pages = 1
	}
	cats, _ := s.categories.List(r.Context())
	base := s.canonicalBase(r)
	data := map[string]any{
		"Products":     list,
		"Total":        total,
		"Page":         page,
		"Pages":        pages,
		"Query":        f.Query,
		"Sort":         f.Sort,
		"Category":     qv.Get("category"),
		"Categories":   cats,
		"CanonicalURL": base + "/marketplace",
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "products.html", data)
}

// handleProduct renders the detail page. The carousel and quantity state
// live in the URL: img selects an image, nav=next|prev steps the carousel,
// off/vel carry a released drag gesture, qty the selected amount.
func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/product/")
	if rest == "" {
		s.renderNotFound(w)
		return
	}
	if slug, ok := strings.CutSuffix(rest, "/checkout"); ok {
		s.handleProductCheckout(w, r, slug)
		return
	}
	p, err := s.products.GetBySlug(r.Context(), rest)
	if err != nil {
		s.renderNotFound(w)
		return
	}

	g, q := s.detailState(p, r.URL.Query())
	base := s.canonicalBase(r)
	og := g.Current()
	if !strings.HasPrefix(og, "http://") && !strings.HasPrefix(og, "https://") {
		og = base + og
	}
	data := map[string]any{
		"Product":      p,
		"Images":       g.Images(),
		"Index":        g.Index(),
		"Direction":    int(g.Direction()),
		"Current":      g.Current(),
		"Qty":          q.Value(),
		"Total":        q.Total(),
		"AtMin":        q.AtMin(),
		"AtMax":        q.AtMax(),
		"Toast":        r.URL.Query().Get("toast"),
		"CanonicalURL": base + "/product/" + p.Slug,
		"OGImage":      og,
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "product.html", data)
}

// detailState replays the URL parameters through the carousel and quantity
// state, in the order jump, step, gesture.
func (s *Server) detailState(p *domain.Product, qv url.Values) (*detail.Gallery, *detail.Quantity) {
	var galleryURLs []string
	for _, gi := range p.Galleries {
		galleryURLs = append(galleryURLs, gi.URL)
	}
	g := detail.NewGallery(p.ImageURL, galleryURLs, s.resolver.Resolve)
	if v := qv.Get("img"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			g.JumpTo(i)
		}
	}
	switch qv.Get("nav") {
	case "next":
		g.Paginate(1)
	case "prev":
		g.Paginate(-1)
	}
	if qv.Get("off") != "" || qv.Get("vel") != "" {
		off, _ := strconv.ParseFloat(qv.Get("off"), 64)
		vel, _ := strconv.ParseFloat(qv.Get("vel"), 64)
		if d := detail.SwipeDelta(off, vel); d != 0 {
			g.Paginate(d)
		}
	}

	q := detail.NewQuantity(p.Price, p.Stock)
	if v := qv.Get("qty"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Set(n)
		}
	}
	return g, q
}

// redirectOpener opens the checkout URL by redirecting the form's target
// tab to it.
type redirectOpener struct {
	w http.ResponseWriter
	r *http.Request
}

func (o *redirectOpener) Open(u string) { http.Redirect(o.w, o.r, u, 303) }

type toastNotifier struct{ msgs []string }

func (n *toastNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

func (s *Server) handleProductCheckout(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	p, err := s.products.GetBySlug(r.Context(), slug)
	if err != nil {
		s.renderNotFound(w)
		return
	}
	qty, _ := strconv.Atoi(r.FormValue("qty"))
	if qty < 1 {
		qty = 1
	}
	img := r.FormValue("img")

	opener := &redirectOpener{w: w, r: r}
	toast := &toastNotifier{}
	d := detail.NewDispatcher(s.checkout, opener, toast)
	if err := d.Dispatch(r.Context(), p.ID, qty); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("checkout dispatch")
		msg := "could not reach the shop, please try again"
		if len(toast.msgs) > 0 {
			msg = toast.msgs[0]
		}
		back := "/product/" + p.Slug + "?qty=" + strconv.Itoa(qty) + "&toast=" + url.QueryEscape(msg)
		if img != "" {
			back += "&img=" + url.QueryEscape(img)
		}
		http.Redirect(w, r, back, 303)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	s.render(w, "login.html", map[string]any{"CanonicalURL": s.canonicalBase(r) + "/login"})
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Redirect(w, r, "/login", 302)
		return
	}
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	if page < 1 {
		page = 1
	}
	list, total, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 50, Sort: "newest"})
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	cats, _ := s.categories.List(r.Context())
	s.render(w, "admin_products.html", map[string]any{
		"Products":   list,
		"Total":      total,
		"Page":       page,
		"Categories": cats,
	})
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "User-agent: *\nDisallow: /admin/\nSitemap: "+s.canonicalBase(r)+"/sitemap.xml\n")
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := s.canonicalBase(r)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	var all []domain.Product
	page := 1
	for {
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200})
		if err != nil {
			break
		}
		all = append(all, list...)
		if len(all) >= int(total) || len(list) == 0 || page > 10 {
			break
		}
		page++
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">")
	now := time.Now().Format("2006-01-02")
	b.WriteString("\n  <url><loc>" + base + "/</loc><lastmod>" + now + "</lastmod></url>")
	b.WriteString("\n  <url><loc>" + base + "/marketplace</loc><lastmod>" + now + "</lastmod></url>")
	for _, p := range all {
		last := now
		if !p.UpdatedAt.IsZero() {
			last = p.UpdatedAt.Format("2006-01-02")
		}
		b.WriteString("\n  <url><loc>" + base + "/product/" + template.URLQueryEscaper(p.Slug) + "</loc><lastmod>" + last + "</lastmod></url>")
	}
	b.WriteString("\n</urlset>")
	_, _ = io.WriteString(w, b.String())
}

// --- sessions and auth ---

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func (s *Server) readUserSession(r *http.Request) *sessionUser {
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if json.Unmarshal(payload, &u) != nil || u.Email == "" {
		return nil
	}
	return &u
}

func (s *Server) isAdmin(r *http.Request) bool {
	if tok := auth.GetBearerToken(r); tok != "" {
		if claims, err := s.tokens.Parse(tok); err == nil && claims.Role == domain.RoleAdmin {
			return true
		}
	}
	if c, err := r.Cookie("admin_token"); err == nil && c.Value != "" {
		if claims, err := s.tokens.Parse(c.Value); err == nil && claims.Role == domain.RoleAdmin {
			return true
		}
	}
	return false
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.isAdmin(r) {
		return true
	}
	http.Error(w, "unauthorized", 401)
	return false
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}
	if s.customers != nil {
		if _, err := s.customers.FindByEmail(r.Context(), info.Email); errors.Is(err, domain.ErrNotFound) {
			_ = s.customers.Save(r.Context(), &domain.Customer{Email: info.Email, Name: info.Name})
		}
	}
	s.writeUserSession(w, &sessionUser{Email: info.Email, Name: info.Name})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeUserSession(w, nil)
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/", 302)
}

// --- helpers ---

func (s *Server) canonicalBase(r *http.Request) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + host
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", 500)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(404)
	if err := s.tmpl.ExecuteTemplate(w, "notfound.html", map[string]any{}); err != nil {
		_, _ = io.WriteString(w, "not found")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
