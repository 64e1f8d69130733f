package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"
	"bizpilot-ledger/pkg/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultSalesLimit caps GetSales when the caller gives no limit
const DefaultSalesLimit = 50

type InventoryService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	GetProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetSales(ctx context.Context, limit int) ([]model.Sale, error)
	AllSales(ctx context.Context) ([]model.Sale, error)
	RecordSale(ctx context.Context, req *RecordSaleRequest) (*model.Sale, error)
	SeedCatalog(ctx context.Context) (int, error)
}

type CreateProductRequest struct {
	Name                string          `json:"name" validate:"required,max=255"`
	Price               decimal.Decimal `json:"price" validate:"gt=0"`
	Stock               int             `json:"stock" validate:"gte=0"`
	Category            string          `json:"category" validate:"required,max=100"`
	Image               string          `json:"image" validate:"omitempty,url"`
	LowStockThreshold   *int            `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	GenerateDescription bool            `json:"generate_description"`
}

type RecordSaleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type inventoryService struct {
	store     *Store
	recorder  *TransactionRecorder
	journal   repository.JournalRepository
	assistant AssistantService
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService wires the product facade. journal and assistant may be nil.
func NewInventoryService(store *Store, recorder *TransactionRecorder, journal repository.JournalRepository, assistant AssistantService, notifier Notifier, logger *zap.Logger) InventoryService {
	return &inventoryService{
		store:     store,
		recorder:  recorder,
		journal:   journal,
		assistant: assistant,
		notifier:  notifier,
		logger:    logger.Named("inventory"),
		now:       time.Now,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	threshold := model.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", model.ErrValidation)
	}
	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = model.PlaceholderImage(name)
	}

	product := model.Product{
		ID:                model.NewID(),
		Name:              name,
		Price:             req.Price,
		Stock:             req.Stock,
		Category:          strings.TrimSpace(req.Category),
		Image:             image,
		LowStockThreshold: threshold,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.addProduct(ctx, &product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
	)
	publish(s.notifier, s.logger, map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_created",
		"product": product,
		"message": fmt.Sprintf("Added '%s' to the catalog", product.Name),
	})

	if req.GenerateDescription && s.assistant != nil {
		id, name := product.ID, product.Name
		// detached from the request; the assistant applies its own timeout
		s.assistant.GenerateDescriptionAsync(context.WithoutCancel(ctx), name, product.Category, func(text string) {
			publish(s.notifier, s.logger, map[string]interface{}{
				"type":        "product_description",
				"product_id":  id,
				"name":        name,
				"description": text,
			})
		})
	}

	return &product, nil
}

// addProduct journals then inserts under the write lock
func (s *inventoryService) addProduct(ctx context.Context, product *model.Product) error {
	return s.store.Write(func(catalog *repository.ProductCatalog, _ *repository.SalesLedger) error {
		product.Seq = catalog.NextSeq()
		if s.journal != nil {
			if err := s.journal.SaveProduct(ctx, product); err != nil {
				return fmt.Errorf("journal product: %w", err)
			}
		}
		return catalog.Add(*product)
	})
}

func (s *inventoryService) GetProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	s.store.Read(func(catalog *repository.ProductCatalog, _ *repository.SalesLedger) {
		for p := range catalog.List(filter) {
			products = append(products, p)
		}
	})
	return products, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var (
		product *model.Product
		err     error
	)
	s.store.Read(func(catalog *repository.ProductCatalog, _ *repository.SalesLedger) {
		product, err = catalog.Find(id)
	})
	return product, err
}

func (s *inventoryService) GetSales(ctx context.Context, limit int) ([]model.Sale, error) {
	if limit <= 0 {
		limit = DefaultSalesLimit
	}
	sales := []model.Sale{}
	s.store.Read(func(_ *repository.ProductCatalog, ledger *repository.SalesLedger) {
		for sale := range ledger.Recent(limit) {
			sales = append(sales, sale)
		}
	})
	return sales, nil
}

// AllSales returns the whole ledger, newest first
func (s *inventoryService) AllSales(ctx context.Context) ([]model.Sale, error) {
	_, sales := s.store.Snapshot()
	return sales, nil
}

func (s *inventoryService) RecordSale(ctx context.Context, req *RecordSaleRequest) (*model.Sale, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.recorder.RecordSale(ctx, req.ProductID, req.Quantity)
}

// SeedCatalog loads the starter products into an empty catalog and reports
// how many were added
func (s *inventoryService) SeedCatalog(ctx context.Context) (int, error) {
	empty := false
	s.store.Read(func(catalog *repository.ProductCatalog, _ *repository.SalesLedger) {
		empty = catalog.Len() == 0
	})
	if !empty {
		return 0, nil
	}

	// added oldest first so the first entry lists first
	seeds := initialProducts(s.now().UTC())
	for i := len(seeds) - 1; i >= 0; i-- {
		if err := s.addProduct(ctx, &seeds[i]); err != nil {
			return len(seeds) - 1 - i, fmt.Errorf("seed %s: %w", seeds[i].Name, err)
		}
	}
	s.logger.Info("catalog seeded", zap.Int("products", len(seeds)))
	return len(seeds), nil
}

func initialProducts(now time.Time) []model.Product {
	seed := func(name string, price int64, stock int, category, image string, threshold int) model.Product {
		return model.Product{
			ID:                model.NewID(),
			Name:              name,
			Price:             decimal.NewFromInt(price),
			Stock:             stock,
			Category:          category,
			Image:             model.PlaceholderImage(image),
			LowStockThreshold: threshold,
			CreatedAt:         now,
		}
	}
	return []model.Product{
		seed("Premium Kenyan Coffee", 1200, 45, "Coffee", "coffee", 10),
		seed("Mwea Pishori Rice (5kg)", 850, 3, "Grains", "rice", 5),
		seed("Organic Avocados (Box)", 2500, 12, "Produce", "avocado", 5),
		seed("Assorted Tea Masala", 450, 0, "Spices", "tea", 5),
		seed("Pure Acacia Honey (1L)", 1800, 8, "Honey", "honey", 5),
	}
}

func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", model.ErrValidation, first.FailedField, first.Tag)
	}
	return nil
}
