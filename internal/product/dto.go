// AngelaMos | 2026
// dto.go

package product

import (
	"time"
)

type CreateProductRequest struct {
	Name             string   `json:"name"              validate:"required,min=1,max=100"`
	Module           string   `json:"module"            validate:"required,min=1,max=50"`
	Description      string   `json:"description"       validate:"max=2000"`
	Features         []string `json:"features"          validate:"omitempty,dive,min=1,max=200"`
	SupportsDownload bool     `json:"supports_download"`
	SupportsRequest  bool     `json:"supports_request"`
	ShowInCatalog    bool     `json:"show_in_catalog"`
}

type UpdateProductRequest struct {
	Name             *string  `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Features         []string `json:"features,omitempty"    validate:"omitempty,dive,min=1,max=200"`
	SupportsDownload *bool    `json:"supports_download,omitempty"`
	SupportsRequest  *bool    `json:"supports_request,omitempty"`
	ShowInCatalog    *bool    `json:"show_in_catalog,omitempty"`
}

type UpdateProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}

type ProductResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Module           string    `json:"module"`
	Description      string    `json:"description"`
	Features         []string  `json:"features"`
	SupportsDownload bool      `json:"supports_download"`
	SupportsRequest  bool      `json:"supports_request"`
	ShowInCatalog    bool      `json:"show_in_catalog"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CatalogEntry is the public projection: no visibility flags, no status.
type CatalogEntry struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Module           string   `json:"module"`
	Description      string   `json:"description"`
	Features         []string `json:"features"`
	SupportsDownload bool     `json:"supports_download"`
	SupportsRequest  bool     `json:"supports_request"`
}

type ListProductsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Module   string `json:"module"`
	Status   string `json:"status"`
}

func (p *ListProductsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListProductsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProductResponse(p *Product) ProductResponse {
	features := p.Features
	if features == nil {
		features = FeatureList{}
	}

	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Module:           p.Module,
		Description:      p.Description,
		Features:         features,
		SupportsDownload: p.SupportsDownload,
		SupportsRequest:  p.SupportsRequest,
		ShowInCatalog:    p.ShowInCatalog,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}

func ToCatalogEntry(p *Product) CatalogEntry {
	features := p.Features
	if features == nil {
		features = FeatureList{}
	}

	return CatalogEntry{
		ID:               p.ID,
		Name:             p.Name,
		Module:           p.Module,
		Description:      p.Description,
		Features:         features,
		SupportsDownload: p.SupportsDownload,
		SupportsRequest:  p.SupportsRequest,
	}
}

func ToCatalogEntryList(products []Product) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, ToCatalogEntry(&p))
	}
	return entries
}
