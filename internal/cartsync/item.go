package cartsync

import (
	"github.com/shopspring/decimal"

	"medkit/internal/apiclient"
)

// CartItem はキャッシュ上の1行。(ProductID, BrandName) で識別する。
type CartItem struct {
	ProductID      string
	BrandName      string
	Name           string
	Quantity       int
	UnitPrice      decimal.Decimal
	ImageURL       string
	AvailableStock int
}

func (i CartItem) matches(productID, brandName string) bool {
	return i.ProductID == productID && i.BrandName == brandName
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OperationKind string

const (
	OpAdd    OperationKind = "add"
	OpRemove OperationKind = "remove"
	OpUpdate OperationKind = "update"
	OpClear  OperationKind = "clear"
)

// CartOperation は実行中の操作。同時に1つだけ記録する。
type CartOperation struct {
	Kind      OperationKind
	ProductID string
	BrandName string
	Quantity  int
}

// サーバーのカート文書をキャッシュの形にする
func itemsFromDocument(doc apiclient.CartDocument) []CartItem {
	items := make([]CartItem, 0, len(doc.Items))
	for _, line := range doc.Items {
		var img string
		if len(line.Product.ProductImages) > 0 {
			img = line.Product.ProductImages[0]
		}
		items = append(items, CartItem{
			ProductID:      line.Product.ID,
			BrandName:      line.BrandName,
			Name:           line.Product.ProductName,
			Quantity:       line.Quantity,
			UnitPrice:      line.Price,
			ImageURL:       img,
			AvailableStock: line.Stock,
		})
	}
	return items
}
