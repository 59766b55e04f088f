package seed

import (
	"context"
	"fmt"

	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"

	"gorm.io/gorm"
)

// SeedTags loads the tag reference data from the CSV file named by
// TAGS_CSV. Reruns are no-ops once the table is populated.
func SeedTags(db *gorm.DB) error {
	path := utils.GetConfig("TAGS_CSV")
	if path == "" {
		path = "data/tags.csv"
	}

	repository := tag.NewTagRepository(db)
	service := tag.NewTagService(repository)

	imported, err := service.ImportFromCSV(context.Background(), path)
	if err != nil {
		return err
	}

	if imported == 0 {
		fmt.Println("Tag data already present, skipping import")
	} else {
		fmt.Printf("Imported %d tags\n", imported)
	}
	return nil
}

// SeedIngredients loads the ingredient reference data from the CSV file
// named by INGREDIENTS_CSV. Reruns are no-ops once the table is populated.
func SeedIngredients(db *gorm.DB) error {
	path := utils.GetConfig("INGREDIENTS_CSV")
	if path == "" {
		path = "data/ingredients.csv"
	}

	repository := ingredient.NewIngredientRepository(db)
	service := ingredient.NewIngredientService(repository)

	imported, err := service.ImportFromCSV(context.Background(), path)
	if err != nil {
		return err
	}

	if imported == 0 {
		fmt.Println("Ingredient data already present, skipping import")
	} else {
		fmt.Printf("Imported %d ingredients\n", imported)
	}
	return nil
}
