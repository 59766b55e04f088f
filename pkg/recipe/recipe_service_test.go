package recipe

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRecipeRepo struct {
	recipes     map[string]*entities.Recipe
	tags        map[string][]*entities.Tag
	lines       map[string][]entities.RecipeIngredient
	favorites   map[string]map[string]bool
	cart        map[string]map[string]bool
	users       map[string]*entities.User
	ingredients map[string]*entities.Ingredient
}

func newFakeRecipeRepo(users map[string]*entities.User, ingredients map[string]*entities.Ingredient) *fakeRecipeRepo {
	return &fakeRecipeRepo{
		recipes:     make(map[string]*entities.Recipe),
		tags:        make(map[string][]*entities.Tag),
		lines:       make(map[string][]entities.RecipeIngredient),
		favorites:   make(map[string]map[string]bool),
		cart:        make(map[string]map[string]bool),
		users:       users,
		ingredients: ingredients,
	}
}

func (r *fakeRecipeRepo) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, lines []entities.RecipeIngredient) error {
	id := recipe.ID.String()
	for i := range lines {
		lines[i].RecipeID = recipe.ID
	}
	r.recipes[id] = recipe
	r.tags[id] = tags
	r.lines[id] = lines
	return nil
}

func (r *fakeRecipeRepo) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, lines []entities.RecipeIngredient) error {
	id := recipe.ID.String()
	if _, ok := r.recipes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range lines {
		lines[i].RecipeID = recipe.ID
	}
	r.recipes[id] = recipe
	r.tags[id] = tags
	r.lines[id] = lines
	return nil
}

func (r *fakeRecipeRepo) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	stored, ok := r.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	recipe := *stored
	recipe.Author = r.users[recipe.AuthorID.String()]
	recipe.Tags = r.tags[id]
	recipe.Ingredients = nil
	for _, line := range r.lines[id] {
		line.Ingredient = r.ingredients[line.IngredientID.String()]
		recipe.Ingredients = append(recipe.Ingredients, line)
	}
	return &recipe, nil
}

func (r *fakeRecipeRepo) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var matched []*entities.Recipe
	for id, recipe := range r.recipes {
		if filter.AuthorID != "" && recipe.AuthorID.String() != filter.AuthorID {
			continue
		}
		if len(filter.Tags) > 0 && !r.hasAnyTag(id, filter.Tags) {
			continue
		}
		if filter.RequesterID != "" {
			if filter.IsFavorited && !r.favorites[filter.RequesterID][id] {
				continue
			}
			if filter.IsInShoppingCart && !r.cart[filter.RequesterID][id] {
				continue
			}
		}
		full, _ := r.GetRecipeByID(ctx, id)
		matched = append(matched, full)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	count := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil, count, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], count, nil
}

func (r *fakeRecipeRepo) hasAnyTag(recipeID string, slugs []string) bool {
	for _, tag := range r.tags[recipeID] {
		for _, slug := range slugs {
			if tag.Slug == slug {
				return true
			}
		}
	}
	return false
}

func (r *fakeRecipeRepo) DeleteRecipe(ctx context.Context, id string) error {
	delete(r.recipes, id)
	delete(r.tags, id)
	delete(r.lines, id)
	for _, set := range r.favorites {
		delete(set, id)
	}
	for _, set := range r.cart {
		delete(set, id)
	}
	return nil
}

func (r *fakeRecipeRepo) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	return r.favorites[userID][recipeID], nil
}

func (r *fakeRecipeRepo) AddFavorite(ctx context.Context, userID, recipeID string) error {
	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[string]bool)
	}
	r.favorites[userID][recipeID] = true
	return nil
}

func (r *fakeRecipeRepo) RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if !r.favorites[userID][recipeID] {
		return false, nil
	}
	delete(r.favorites[userID], recipeID)
	return true, nil
}

func (r *fakeRecipeRepo) IsInShoppingCart(ctx context.Context, userID, recipeID string) (bool, error) {
	return r.cart[userID][recipeID], nil
}

func (r *fakeRecipeRepo) AddToShoppingCart(ctx context.Context, userID, recipeID string) error {
	if r.cart[userID] == nil {
		r.cart[userID] = make(map[string]bool)
	}
	r.cart[userID][recipeID] = true
	return nil
}

func (r *fakeRecipeRepo) RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) (bool, error) {
	if !r.cart[userID][recipeID] {
		return false, nil
	}
	delete(r.cart[userID], recipeID)
	return true, nil
}

func (r *fakeRecipeRepo) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	totals := make(map[string]*domain.ShoppingListItem)
	for recipeID := range r.cart[userID] {
		for _, line := range r.lines[recipeID] {
			ing := r.ingredients[line.IngredientID.String()]
			key := ing.Name + "/" + ing.MeasurementUnit
			if totals[key] == nil {
				totals[key] = &domain.ShoppingListItem{
					Name:            ing.Name,
					MeasurementUnit: ing.MeasurementUnit,
				}
			}
			totals[key].TotalAmount += line.Amount
		}
	}

	items := make([]domain.ShoppingListItem, 0, len(totals))
	for _, item := range totals {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

type fakeTagRepo struct {
	tags map[string]*entities.Tag
}

func (r *fakeTagRepo) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	result := make([]*entities.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		result = append(result, tag)
	}
	return result, nil
}

func (r *fakeTagRepo) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tag, nil
}

func (r *fakeTagRepo) GetTagsByIDs(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	var result []*entities.Tag
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			result = append(result, tag)
		}
	}
	return result, nil
}

func (r *fakeTagRepo) CreateTag(ctx context.Context, tag *entities.Tag) error {
	r.tags[tag.ID.String()] = tag
	return nil
}

type fakeIngredientRepo struct {
	ingredients map[string]*entities.Ingredient
}

func (r *fakeIngredientRepo) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var result []*entities.Ingredient
	for _, ing := range r.ingredients {
		if namePrefix == "" || strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(namePrefix)) {
			result = append(result, ing)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeIngredientRepo) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ing, nil
}

func (r *fakeIngredientRepo) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error) {
	var result []*entities.Ingredient
	for _, id := range ids {
		if ing, ok := r.ingredients[id]; ok {
			result = append(result, ing)
		}
	}
	return result, nil
}

func (r *fakeIngredientRepo) CountIngredients(ctx context.Context) (int64, error) {
	return int64(len(r.ingredients)), nil
}

func (r *fakeIngredientRepo) BulkCreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	for _, ing := range ingredients {
		r.ingredients[ing.ID.String()] = ing
	}
	return nil
}

type fakeUserRepo struct {
	users         map[string]*entities.User
	subscriptions map[string]map[string]bool
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	result := make([]*entities.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, int64(len(result)), nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *entities.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return r.subscriptions[userID][authorID], nil
}

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func (s *fakeStorage) UploadFile(fileName string, data []byte, contentType string, dir string, allowedTypes ...string) (string, error) {
	key := dir + "/" + fileName
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	s.uploads[key] = data
	return key, nil
}

func (s *fakeStorage) DeleteFile(objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://storage.test/")
}

func (s *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://storage.test/" + objectKey
}

type recipeTestEnv struct {
	recipeRepo *fakeRecipeRepo
	tagRepo    *fakeTagRepo
	ingRepo    *fakeIngredientRepo
	userRepo   *fakeUserRepo
	storage    *fakeStorage
	service    RecipeService

	author entities.User
	tag    entities.Tag
	flour  entities.Ingredient
	sugar  entities.Ingredient
}

func newRecipeTestEnv() *recipeTestEnv {
	env := &recipeTestEnv{
		author: entities.User{ID: uuid.New(), Username: "chef", Email: "chef@example.com"},
		tag:    entities.Tag{ID: uuid.New(), Name: "Breakfast", Color: "#49B64E", Slug: "breakfast"},
		flour:  entities.Ingredient{ID: uuid.New(), Name: "flour", MeasurementUnit: "g"},
		sugar:  entities.Ingredient{ID: uuid.New(), Name: "sugar", MeasurementUnit: "g"},
	}

	users := map[string]*entities.User{env.author.ID.String(): &env.author}
	ingredients := map[string]*entities.Ingredient{
		env.flour.ID.String(): &env.flour,
		env.sugar.ID.String(): &env.sugar,
	}

	env.recipeRepo = newFakeRecipeRepo(users, ingredients)
	env.tagRepo = &fakeTagRepo{tags: map[string]*entities.Tag{env.tag.ID.String(): &env.tag}}
	env.ingRepo = &fakeIngredientRepo{ingredients: ingredients}
	env.userRepo = &fakeUserRepo{users: users, subscriptions: make(map[string]map[string]bool)}
	env.storage = &fakeStorage{}
	env.service = NewRecipeService(env.recipeRepo, env.tagRepo, env.ingRepo, env.userRepo, env.storage)
	return env
}

func (env *recipeTestEnv) createRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 15,
		Tags:        []string{env.tag.ID.String()},
		Ingredients: []domain.IngredientLineRequest{
			{ID: env.flour.ID.String(), Amount: 200},
			{ID: env.sugar.ID.String(), Amount: 50},
		},
	}
}

func TestCreateRecipeSuccess(t *testing.T) {
	env := newRecipeTestEnv()

	resp, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Name != "Pancakes" {
		t.Fatalf("expected name Pancakes, got %q", resp.Name)
	}
	if resp.Author.Username != "chef" {
		t.Fatalf("expected author chef, got %q", resp.Author.Username)
	}
	if len(resp.Tags) != 1 || resp.Tags[0].Slug != "breakfast" {
		t.Fatalf("expected tag breakfast, got %+v", resp.Tags)
	}
	if len(resp.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient lines, got %d", len(resp.Ingredients))
	}
	stored := env.recipeRepo.lines[resp.ID]
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored lines, got %d", len(stored))
	}
}

func TestCreateRecipeUnknownTag(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Tags = []string{uuid.New().String()}

	_, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String())
	if !errors.Is(err, domain.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Ingredients = []domain.IngredientLineRequest{{ID: uuid.New().String(), Amount: 10}}

	_, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String())
	if !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
}

func TestCreateRecipeDuplicateIngredientLine(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Ingredients = []domain.IngredientLineRequest{
		{ID: env.flour.ID.String(), Amount: 100},
		{ID: env.flour.ID.String(), Amount: 200},
	}

	_, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String())
	if !errors.Is(err, domain.ErrDuplicateIngredientLine) {
		t.Fatalf("expected ErrDuplicateIngredientLine, got %v", err)
	}
}

func TestCreateRecipeRejectsBadAmounts(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Ingredients[0].Amount = 0
	if _, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String()); !errors.Is(err, domain.ErrInvalidIngredientAmount) {
		t.Fatalf("expected ErrInvalidIngredientAmount, got %v", err)
	}

	req = env.createRequest()
	req.CookingTime = 0
	if _, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String()); !errors.Is(err, domain.ErrInvalidCookingTime) {
		t.Fatalf("expected ErrInvalidCookingTime, got %v", err)
	}
}

func TestCreateRecipeDeduplicatesTags(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Tags = []string{env.tag.ID.String(), env.tag.ID.String()}

	resp, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Tags) != 1 {
		t.Fatalf("expected 1 tag after dedup, got %d", len(resp.Tags))
	}
}

func TestCreateRecipeInvalidImagePayload(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Image = "data:image/png;base64,%%%"

	if _, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String()); !errors.Is(err, domain.ErrInvalidImagePayload) {
		t.Fatalf("expected ErrInvalidImagePayload, got %v", err)
	}
}

func TestUpdateRecipeReplacesIngredientLines(t *testing.T) {
	env := newRecipeTestEnv()

	created, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	update := domain.UpdateRecipeRequest{
		Name:        "Thin pancakes",
		Text:        "Mix thinner, fry faster.",
		CookingTime: 10,
		Tags:        []string{env.tag.ID.String()},
		Ingredients: []domain.IngredientLineRequest{
			{ID: env.sugar.ID.String(), Amount: 25},
		},
	}

	resp, err := env.service.UpdateRecipe(context.Background(), created.ID, update, env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Name != "Thin pancakes" {
		t.Fatalf("expected updated name, got %q", resp.Name)
	}
	if len(resp.Ingredients) != 1 || resp.Ingredients[0].Name != "sugar" {
		t.Fatalf("expected lines replaced with sugar only, got %+v", resp.Ingredients)
	}
	if resp.Ingredients[0].Amount != 25 {
		t.Fatalf("expected amount 25, got %d", resp.Ingredients[0].Amount)
	}
}

func TestUpdateRecipeNotAuthor(t *testing.T) {
	env := newRecipeTestEnv()

	created, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stranger := entities.User{ID: uuid.New(), Username: "stranger"}
	env.userRepo.users[stranger.ID.String()] = &stranger

	update := domain.UpdateRecipeRequest{
		Name:        "Hijacked",
		Text:        "Nope.",
		CookingTime: 5,
		Tags:        []string{env.tag.ID.String()},
		Ingredients: []domain.IngredientLineRequest{{ID: env.flour.ID.String(), Amount: 1}},
	}

	if _, err := env.service.UpdateRecipe(context.Background(), created.ID, update, stranger.ID.String()); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("expected ErrNotRecipeAuthor, got %v", err)
	}
	if err := env.service.DeleteRecipe(context.Background(), created.ID, stranger.ID.String()); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("expected ErrNotRecipeAuthor on delete, got %v", err)
	}
}

func TestDeleteRecipeRemovesStoredImage(t *testing.T) {
	env := newRecipeTestEnv()

	req := env.createRequest()
	req.Image = "data:image/png;base64,aGVsbG8="

	created, err := env.service.CreateRecipe(context.Background(), req, env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ImageURL == "" {
		t.Fatalf("expected image url set")
	}

	if err := env.service.DeleteRecipe(context.Background(), created.ID, env.author.ID.String()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(env.storage.deleted) != 1 {
		t.Fatalf("expected 1 deleted object, got %d", len(env.storage.deleted))
	}
	if _, err := env.service.GetRecipeDetail(context.Background(), created.ID, ""); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound after delete, got %v", err)
	}
}

func TestFavoriteToggle(t *testing.T) {
	env := newRecipeTestEnv()

	created, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	userID := env.author.ID.String()

	short, err := env.service.AddFavorite(context.Background(), created.ID, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if short.ID != created.ID || short.Name != "Pancakes" {
		t.Fatalf("expected short response for created recipe, got %+v", short)
	}

	if _, err := env.service.AddFavorite(context.Background(), created.ID, userID); !errors.Is(err, domain.ErrAlreadyFavorited) {
		t.Fatalf("expected ErrAlreadyFavorited, got %v", err)
	}

	if err := env.service.RemoveFavorite(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := env.service.RemoveFavorite(context.Background(), created.ID, userID); !errors.Is(err, domain.ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound, got %v", err)
	}
}

func TestFavoriteUnknownRecipe(t *testing.T) {
	env := newRecipeTestEnv()

	if _, err := env.service.AddFavorite(context.Background(), uuid.New().String(), env.author.ID.String()); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestShoppingCartToggle(t *testing.T) {
	env := newRecipeTestEnv()

	created, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	userID := env.author.ID.String()

	if _, err := env.service.AddToShoppingCart(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := env.service.AddToShoppingCart(context.Background(), created.ID, userID); !errors.Is(err, domain.ErrAlreadyInShoppingCart) {
		t.Fatalf("expected ErrAlreadyInShoppingCart, got %v", err)
	}
	if err := env.service.RemoveFromShoppingCart(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := env.service.RemoveFromShoppingCart(context.Background(), created.ID, userID); !errors.Is(err, domain.ErrShoppingCartEntryNotFound) {
		t.Fatalf("expected ErrShoppingCartEntryNotFound, got %v", err)
	}
}

func TestBuildShoppingListAggregatesSharedIngredients(t *testing.T) {
	env := newRecipeTestEnv()
	userID := env.author.ID.String()

	first, err := env.service.CreateRecipe(context.Background(), env.createRequest(), userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := env.createRequest()
	second.Name = "Dough"
	second.Ingredients = []domain.IngredientLineRequest{{ID: env.flour.ID.String(), Amount: 150}}
	secondResp, err := env.service.CreateRecipe(context.Background(), second, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, id := range []string{first.ID, secondResp.ID} {
		if _, err := env.service.AddToShoppingCart(context.Background(), id, userID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	report, err := env.service.BuildShoppingList(context.Background(), userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(report, "Shopping list for chef\n") {
		t.Fatalf("expected header with username, got %q", report)
	}
	if !strings.Contains(report, "flour (g) -- 350") {
		t.Fatalf("expected flour summed to 350, got %q", report)
	}
	if !strings.Contains(report, "sugar (g) -- 50") {
		t.Fatalf("expected sugar line, got %q", report)
	}
	if strings.Index(report, "flour") > strings.Index(report, "sugar") {
		t.Fatalf("expected ingredient name order, got %q", report)
	}
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	env := newRecipeTestEnv()

	report, err := env.service.BuildShoppingList(context.Background(), env.author.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(report, "Shopping list for chef\n") {
		t.Fatalf("expected header, got %q", report)
	}
	if strings.Contains(report, "--") {
		t.Fatalf("expected no item lines for empty cart, got %q", report)
	}
}

func TestRecipeFlagsHiddenFromAnonymous(t *testing.T) {
	env := newRecipeTestEnv()
	userID := env.author.ID.String()

	created, err := env.service.CreateRecipe(context.Background(), env.createRequest(), userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := env.service.AddFavorite(context.Background(), created.ID, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	asOwner, err := env.service.GetRecipeDetail(context.Background(), created.ID, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !asOwner.IsFavorited {
		t.Fatalf("expected is_favorited for the requester")
	}

	asGuest, err := env.service.GetRecipeDetail(context.Background(), created.ID, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asGuest.IsFavorited || asGuest.IsInShoppingCart {
		t.Fatalf("expected flags false for anonymous, got %+v", asGuest)
	}
}

func TestGetRecipesTagUnion(t *testing.T) {
	env := newRecipeTestEnv()
	userID := env.author.ID.String()

	vegan := entities.Tag{ID: uuid.New(), Name: "Vegan", Color: "#00AA00", Slug: "vegan"}
	env.tagRepo.tags[vegan.ID.String()] = &vegan

	if _, err := env.service.CreateRecipe(context.Background(), env.createRequest(), userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	both := env.createRequest()
	both.Name = "Tofu bowl"
	both.Tags = []string{env.tag.ID.String(), vegan.ID.String()}
	if _, err := env.service.CreateRecipe(context.Background(), both, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	union := domain.RecipeFilter{Tags: []string{"breakfast", "vegan"}}
	recipes, count, err := env.service.GetRecipes(context.Background(), union, 1, 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 || len(recipes) != 2 {
		t.Fatalf("expected union of 2 recipes, got count=%d len=%d", count, len(recipes))
	}
	seen := make(map[string]bool)
	for _, r := range recipes {
		if seen[r.ID] {
			t.Fatalf("expected no duplicate recipe ids, got %q twice", r.ID)
		}
		seen[r.ID] = true
	}

	veganOnly := domain.RecipeFilter{Tags: []string{"vegan"}}
	recipes, count, err = env.service.GetRecipes(context.Background(), veganOnly, 1, 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 || len(recipes) != 1 || recipes[0].Name != "Tofu bowl" {
		t.Fatalf("expected only the vegan recipe, got count=%d %+v", count, recipes)
	}
}

func TestGetRecipesAnonymousIgnoresFavoriteFilter(t *testing.T) {
	env := newRecipeTestEnv()
	userID := env.author.ID.String()

	first, err := env.service.CreateRecipe(context.Background(), env.createRequest(), userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second := env.createRequest()
	second.Name = "Dough"
	if _, err := env.service.CreateRecipe(context.Background(), second, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := env.service.AddFavorite(context.Background(), first.ID, userID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	anonymous := domain.RecipeFilter{IsFavorited: true, RequesterID: ""}
	_, count, err := env.service.GetRecipes(context.Background(), anonymous, 1, 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected favorited filter ignored for anonymous, got count=%d", count)
	}

	authed := domain.RecipeFilter{IsFavorited: true, RequesterID: userID}
	recipes, count, err := env.service.GetRecipes(context.Background(), authed, 1, 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 || len(recipes) != 1 || recipes[0].ID != first.ID {
		t.Fatalf("expected only the favorited recipe for the requester, got count=%d %+v", count, recipes)
	}
}

func TestGetRecipesFilterByAuthor(t *testing.T) {
	env := newRecipeTestEnv()

	other := entities.User{ID: uuid.New(), Username: "other", Email: "other@example.com"}
	env.userRepo.users[other.ID.String()] = &other

	if _, err := env.service.CreateRecipe(context.Background(), env.createRequest(), env.author.ID.String()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	req := env.createRequest()
	req.Name = "Other dish"
	if _, err := env.service.CreateRecipe(context.Background(), req, other.ID.String()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	recipes, count, err := env.service.GetRecipes(context.Background(), domain.RecipeFilter{AuthorID: other.ID.String()}, 1, 20)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 || len(recipes) != 1 {
		t.Fatalf("expected 1 recipe for author, got count=%d len=%d", count, len(recipes))
	}
	if recipes[0].Name != "Other dish" {
		t.Fatalf("expected Other dish, got %q", recipes[0].Name)
	}
}
