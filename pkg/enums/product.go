package enums

import "fmt"

// ProductCategory represents the canonical produce categories in the catalog.
type ProductCategory string

const (
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryGrains     ProductCategory = "grains"
	ProductCategoryOthers     ProductCategory = "others"
)

var validProductCategories = []ProductCategory{
	ProductCategoryVegetables,
	ProductCategoryFruits,
	ProductCategoryGrains,
	ProductCategoryOthers,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductStatus represents a listing's visibility in the catalog.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusSold     ProductStatus = "sold"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusInactive,
	ProductStatusSold,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
