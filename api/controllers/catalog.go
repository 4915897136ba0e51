package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kartik48/sunitas-creations/api/responses"
	"github.com/kartik48/sunitas-creations/api/validators"
	"github.com/kartik48/sunitas-creations/internal/catalog"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
	"github.com/kartik48/sunitas-creations/pkg/pagination"
)

// CatalogHome serves the landing payload: featured products plus the active
// category tree.
func CatalogHome(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, home)
	}
}

// ShopProducts serves the filterable, sortable shop listing.
func ShopProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sort, err := parseSortOrder(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.Filters{
			CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
			TagSlug:      strings.TrimSpace(r.URL.Query().Get("tag")),
			Search:       strings.TrimSpace(r.URL.Query().Get("q")),
			Sort:         sort,
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		page, err := svc.Shop(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ProductBySlug serves the product detail page, related products included.
func ProductBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// Categories lists the active category tree for storefront navigation.
func Categories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// Tags lists all product tags.
func Tags(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tags, err := svc.Tags(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"tags": tags})
	}
}

func parseSortOrder(raw string) (catalog.SortOrder, error) {
	switch strings.TrimSpace(raw) {
	case "", "newest":
		return catalog.SortLatest, nil
	case "price_low":
		return catalog.SortPriceAsc, nil
	case "price_high":
		return catalog.SortPriceDesc, nil
	case "name":
		return catalog.SortNameAsc, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort order")
	}
}
