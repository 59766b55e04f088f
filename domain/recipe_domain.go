package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"
	MessageSuccessGetShoppingList = "success get shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList = "failed to get shopping list"

	ErrRecipeNotFound            = errors.New("recipe not found")
	ErrNotRecipeAuthor           = errors.New("only the author may modify this recipe")
	ErrNoTags                    = errors.New("recipe must have at least one tag")
	ErrNoIngredientLines         = errors.New("recipe must have at least one ingredient")
	ErrInvalidCookingTime        = errors.New("cooking time must be at least 1")
	ErrInvalidIngredientAmount   = errors.New("ingredient amount must be at least 1")
	ErrDuplicateIngredientLine   = errors.New("ingredient appears more than once")
	ErrInvalidImagePayload       = errors.New("image must be a base64 encoded payload")
	ErrAlreadyFavorited          = errors.New("recipe already in favorites")
	ErrFavoriteNotFound          = errors.New("recipe is not in favorites")
	ErrAlreadyInShoppingCart     = errors.New("recipe already in shopping cart")
	ErrShoppingCartEntryNotFound = errors.New("recipe is not in shopping cart")
)

type (
	IngredientLineRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                  `json:"name" validate:"required,max=250"`
		Text        string                  `json:"text" validate:"required"`
		Image       string                  `json:"image,omitempty"`
		CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
		Tags        []string                `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                  `json:"name" validate:"required,max=250"`
		Text        string                  `json:"text" validate:"required"`
		Image       string                  `json:"image,omitempty"`
		CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
		Tags        []string                `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	IngredientLineResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID                string                   `json:"id"`
		Name              string                   `json:"name"`
		Text              string                   `json:"text"`
		ImageURL          string                   `json:"image,omitempty"`
		CookingTime       int                      `json:"cooking_time"`
		Author            UserResponse             `json:"author"`
		Tags              []TagResponse            `json:"tags"`
		Ingredients       []IngredientLineResponse `json:"ingredients"`
		IsFavorited       bool                     `json:"is_favorited"`
		IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
		CreatedAt         time.Time                `json:"created_at"`
	}

	// RecipeShortResponse is the compact projection returned by the favorite
	// and shopping cart toggles and by subscription previews.
	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter carries the recipe listing axes. Boolean axes only apply
	// when RequesterID is set; anonymous requests leave them unrestricted.
	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		RequesterID      string
	}

	// ShoppingListItem is one aggregated line of the shopping list report.
	ShoppingListItem struct {
		Name            string
		MeasurementUnit string
		TotalAmount     int
	}
)
