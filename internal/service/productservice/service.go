package productservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// ProductRepository define o contrato que o Serviço de Produto espera da
// camada de persistência.
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindByName(ctx context.Context, name string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByFilters(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// StockWriter é a fatia do fluxo de inventário usada pelo patch de produto:
// a escrita de estoque passa pelo mesmo caminho que os ajustes normais,
// inclusive a checagem de estoque baixo.
type StockWriter interface {
	UpdateStock(ctx context.Context, product domain.Product, newStock int64) (domain.Product, error)
}

// Service implementa o catálogo de produtos: criação com regras de unidade,
// consultas, atualização parcial e exclusão restrita a donos.
type Service struct {
	repo   ProductRepository
	stock  StockWriter
	logger logger.Logger
}

// NewService cria o Serviço de Produto.
func NewService(repo ProductRepository, stock StockWriter, log logger.Logger) *Service {
	return &Service{repo: repo, stock: stock, logger: log}
}

// CreateProduct valida as regras de negócio do catálogo e persiste o produto
// junto com seu registro de inventário.
func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	category, ok := domain.ParseProductCategory(req.Category)
	if !ok {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Invalid product category: %s", req.Category))
	}
	unit, ok := domain.ParseMeasurementUnit(req.MeasurementUnit)
	if !ok {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Invalid measurement unit: %s", req.MeasurementUnit))
	}

	if err := validateUnitForCategory(category, unit); err != nil {
		return domain.Product{}, err
	}
	if req.Price < 0 {
		return domain.Product{}, apperror.NewValidationError("The price can't be negative!")
	}
	if req.CurrentStock < 0 {
		return domain.Product{}, apperror.NewValidationError("The stock can't be negative!")
	}

	// Unicidade de nome: a busca por nome devolve NotFound quando o nome
	// está livre; qualquer outro erro é falha de infraestrutura.
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("A product with this name already exists: %s", req.Name))
	} else {
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			return domain.Product{}, err
		}
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Category:           category,
		MeasurementUnit:    unit,
		Price:              req.Price,
		CurrentStock:       req.CurrentStock,
		MinQuantityOnStock: req.MinQuantityOnStock,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{
		"product_id": created.ID,
		"name":       created.Name,
	})
	return created, nil
}

// GetAllProducts lista o catálogo completo.
func (s *Service) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductByID busca um produto pelo identificador.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductByName busca um produto pelo nome exato (sem diferenciar caixa).
func (s *Service) GetProductByName(ctx context.Context, name string) (domain.Product, error) {
	return s.repo.FindByName(ctx, name)
}

// SearchProducts lista produtos combinando os filtros informados.
func (s *Service) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.FindByFilters(ctx, filter)
}

// UpdateProduct aplica uma atualização parcial: somente os campos presentes
// na requisição são alterados. A escrita de estoque é roteada pelo fluxo de
// inventário para manter a checagem de estoque baixo.
func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil && *req.Name != product.Name {
		if _, err := s.repo.FindByName(ctx, *req.Name); err == nil {
			return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("A product with this name already exists: %s", *req.Name))
		} else {
			var notFound *apperror.NotFoundError
			if !errors.As(err, &notFound) {
				return domain.Product{}, err
			}
		}
		product.Name = *req.Name
	}
	if req.Category != nil {
		category, ok := domain.ParseProductCategory(*req.Category)
		if !ok {
			return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Invalid product category: %s", *req.Category))
		}
		product.Category = category
	}
	if req.MeasurementUnit != nil {
		unit, ok := domain.ParseMeasurementUnit(*req.MeasurementUnit)
		if !ok {
			return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Invalid measurement unit: %s", *req.MeasurementUnit))
		}
		product.MeasurementUnit = unit
	}
	if err := validateUnitForCategory(product.Category, product.MeasurementUnit); err != nil {
		return domain.Product{}, err
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.Product{}, apperror.NewValidationError("The price can't be negative!")
		}
		product.Price = *req.Price
	}
	if req.MinQuantityOnStock != nil {
		product.MinQuantityOnStock = *req.MinQuantityOnStock
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	if req.CurrentStock != nil && *req.CurrentStock != updated.CurrentStock {
		updated, err = s.stock.UpdateStock(ctx, updated, *req.CurrentStock)
		if err != nil {
			return domain.Product{}, err
		}
	}
	return updated, nil
}

// DeleteProduct remove um produto do catálogo. Apenas donos podem excluir.
func (s *Service) DeleteProduct(ctx context.Context, requesterProfile domain.UserProfile, id string) error {
	if requesterProfile != domain.ProfileOwner {
		return apperror.NewForbiddenError("You don't have permission to delete products!")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Produto excluído.", map[string]interface{}{"product_id": id})
	return nil
}

// validateUnitForCategory aplica a regra de coerência categoria/unidade:
// bebidas são medidas em litros e ingredientes em qualquer outra unidade.
func validateUnitForCategory(category domain.ProductCategory, unit domain.MeasurementUnit) error {
	if category == domain.CategoryBeverages {
		if unit != domain.UnitLiter {
			return apperror.NewValidationError("Beverages must be measured in liters!")
		}
		return nil
	}
	if unit == domain.UnitLiter {
		return apperror.NewValidationError("Ingredients must be measured in kilograms, units, boxes, dozens, or milliliters!")
	}
	return nil
}
