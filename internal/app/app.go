package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/papermintx/stylemarket/internal/adapters/httpserver"
	"github.com/papermintx/stylemarket/internal/adapters/messaging/whatsapp"
	"github.com/papermintx/stylemarket/internal/adapters/repo/postgres"
	"github.com/papermintx/stylemarket/internal/adapters/storage/localfs"
	"github.com/papermintx/stylemarket/internal/auth"
	"github.com/papermintx/stylemarket/internal/config"
	"github.com/papermintx/stylemarket/internal/domain"
	"github.com/papermintx/stylemarket/internal/imgurl"
	"github.com/papermintx/stylemarket/internal/usecase"
	"github.com/papermintx/stylemarket/internal/views"
)

type App struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Tmpl       *template.Template
	ProductUC  *usecase.ProductUC
	CheckoutUC *usecase.CheckoutUC
	AuthUC     *usecase.AuthUC
	Categories domain.CategoryRepo
	Featured   domain.FeaturedProductRepo
	Customers  domain.CustomerRepo
	Storage    domain.FileStorage
	Tokens     *auth.Manager
	OAuth      *oauth2.Config
	Resolver   *imgurl.Resolver
}

func New(db *gorm.DB, cfg *config.Config) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	userRepo := postgres.NewUserRepo(db)
	custRepo := postgres.NewCustomerRepo(db)
	featRepo := postgres.NewFeaturedProductRepo(db)

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	storage := localfs.New(cfg.StorageDir)
	gateway := whatsapp.New(cfg.WhatsAppPhone)
	tokens := auth.NewManager(cfg.JWTSecret, 24*time.Hour)

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	a := &App{
		DB:         db,
		Cfg:        cfg,
		ProductUC:  &usecase.ProductUC{Products: prodRepo, Storage: storage},
		CheckoutUC: &usecase.CheckoutUC{Products: prodRepo, Orders: orderRepo, Gateway: gateway},
		AuthUC:     &usecase.AuthUC{Users: userRepo, Tokens: tokens, RegisterKey: cfg.RegisterKey},
		Categories: catRepo,
		Featured:   featRepo,
		Customers:  custRepo,
		Storage:    storage,
		Tokens:     tokens,
		OAuth:      oauthCfg,
		Resolver:   imgurl.New(cfg.BaseURL),
	}

	tmpl, err := parseTemplates(cfg)
	if err != nil {
		return nil, err
	}
	a.Tmpl = tmpl
	return a, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"rp":  whatsapp.FormatRupiah,
		"img": func(u string) string {
			s := strings.TrimSpace(u)
			if s == "" {
				return imgurl.Placeholder
			}
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "/") {
				s = "/" + s
			}
			return strings.ReplaceAll(s, " ", "%20")
		},
		"imgw": func(u string, w int) string {
			s := strings.TrimSpace(u)
			if s == "" {
				return imgurl.Placeholder
			}
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "/") {
				s = "/" + s
			}
			s = strings.ReplaceAll(s, " ", "%20")
			return fmt.Sprintf("%s?w=%d", s, w)
		},
	}
}

func parseTemplates(cfg *config.Config) (*template.Template, error) {
	if cfg.IsProd() {
		return template.New("layout").Funcs(funcMap()).ParseFS(views.FS, "*.html")
	}
	// dev parses from disk so template edits show up without a rebuild
	return template.New("layout").Funcs(funcMap()).ParseGlob("internal/views/*.html")
}

// MigrateAndSeed creates the schema, a bootstrap admin when
// ADMIN_EMAIL/ADMIN_PASSWORD are set, and a starter catalog on an empty
// database.
func (a *App) MigrateAndSeed(ctx context.Context) error {
	err := a.DB.WithContext(ctx).AutoMigrate(
		&domain.Category{},
		&domain.Product{},
		&domain.GalleryImage{},
		&domain.FeaturedProduct{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.User{},
		&domain.Customer{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if email, pass := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && pass != "" {
		if _, err := a.AuthUC.Users.FindByEmail(ctx, strings.ToLower(email)); errors.Is(err, domain.ErrNotFound) {
			hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u := &domain.User{
				ID:           uuid.New(),
				Email:        strings.ToLower(email),
				PasswordHash: string(hash),
				Role:         domain.RoleAdmin,
			}
			if err := a.AuthUC.Users.Save(ctx, u); err != nil {
				return err
			}
			log.Info().Str("email", email).Msg("bootstrap admin created")
		}
	}

	var count int64
	if err := a.DB.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return a.seedCatalog(ctx)
}

func (a *App) seedCatalog(ctx context.Context) error {
	cats := map[string]*domain.Category{}
	for _, name := range []string{"Kemeja", "Kaos", "Celana", "Jaket"} {
		c := &domain.Category{Name: name}
		if err := a.Categories.Save(ctx, c); err != nil {
			return err
		}
		cats[name] = c
	}

	seed := []struct {
		name, cat string
		price     int64
		stock     int
	}{
		{"Kemeja Flanel Premium", "Kemeja", 150000, 12},
		{"Kaos Oversize Hitam", "Kaos", 90000, 30},
		{"Celana Chino Slim", "Celana", 225000, 8},
		{"Jaket Denim Washed", "Jaket", 320000, 5},
	}
	for i, sp := range seed {
		p := &domain.Product{
			Name:       sp.name,
			Price:      sp.price,
			Stock:      sp.stock,
			CategoryID: &cats[sp.cat].ID,
		}
		if err := a.ProductUC.Create(ctx, p); err != nil {
			return err
		}
		if err := a.Featured.Save(ctx, p.ID, i); err != nil {
			return err
		}
	}
	log.Info().Int("products", len(seed)).Msg("seeded starter catalog")
	return nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Options{
		Templates:  a.Tmpl,
		Products:   a.ProductUC,
		Checkout:   a.CheckoutUC,
		Auth:       a.AuthUC,
		Categories: a.Categories,
		Featured:   a.Featured,
		Storage:    a.Storage,
		Customers:  a.Customers,
		OAuth:      a.OAuth,
		Tokens:     a.Tokens,
		Resolver:   a.Resolver,
		SessionKey: a.Cfg.SessionKey,
		UploadsDir: a.Cfg.StorageDir,
		CORS:       a.Cfg.CORSOrigins,
	})
}
