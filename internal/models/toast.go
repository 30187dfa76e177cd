package models

import "fmt"

const (
	ToastDefault     = "default"
	ToastDestructive = "destructive"
)

// Toast is a transient user notification.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

func AddedToCartToast(itemName string) Toast {
	return Toast{
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s has been added to your cart.", itemName),
		Variant:     ToastDefault,
	}
}
