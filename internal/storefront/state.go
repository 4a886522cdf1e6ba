package storefront

import (
	"neogaming/internal/geo"
	"neogaming/internal/models"
	"neogaming/internal/weather"
)

// View is the page currently shown.
type View int

const (
	ViewHome View = iota
	ViewCategory
	ViewSuccess
)

func (v View) String() string {
	switch v {
	case ViewCategory:
		return "category"
	case ViewSuccess:
		return "success"
	default:
		return "home"
	}
}

// ProductSource tells where the displayed catalog came from.
type ProductSource int

const (
	SourceNone ProductSource = iota
	SourceAPI
	SourceExamples
)

// AppState is everything the UI renders from.
type AppState struct {
	View     View
	Products []models.Product // home grid
	Source   ProductSource
	// ProductsErr is set when the catalog could not be loaded and no
	// fallback was used; the UI shows a retry panel.
	ProductsErr error

	Category *CategoryPage
	Modal    *ProductDetail // nil when closed

	Location   *geo.Resolution
	Weather    *weather.Report
	WeatherErr error

	LastPurchase *models.PurchaseRecord
}
