package health

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/pricebook/pkg/catalog"
)

// Check names registered by the server.
const (
	CheckCatalogLoaded = "catalog_loaded"
	CheckCatalogValid  = "catalog_valid"
)

// CatalogSource returns the catalog currently in use.
type CatalogSource func() *catalog.Catalog

// CatalogLoadedCheck fails when no catalog is active or it has no entries.
func CatalogLoadedCheck(source CatalogSource) CheckFunc {
	return func(ctx context.Context) error {
		cat := source()
		if cat == nil {
			return errors.New("no catalog loaded")
		}
		if len(cat.Entries()) == 0 {
			return errors.New("catalog has no model entries")
		}
		return nil
	}
}

// CatalogValidCheck re-validates the active catalog.
func CatalogValidCheck(source CatalogSource) CheckFunc {
	return func(ctx context.Context) error {
		if err := catalog.Validate(source()); err != nil {
			return fmt.Errorf("catalog invalid: %w", err)
		}
		return nil
	}
}

// RegisterCatalogChecks registers both catalog checks on c.
func RegisterCatalogChecks(c *Checker, source CatalogSource) {
	c.RegisterCheck(CheckCatalogLoaded, CatalogLoadedCheck(source))
	c.RegisterCheck(CheckCatalogValid, CatalogValidCheck(source))
}
