package routes

import (
	"feedback-board-server/models"
	"feedback-board-server/storage"
	"feedback-board-server/utils"
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GET /api/categories — public
func GetCategories(ctx iris.Context) {
	var categories []models.Category
	if err := storage.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "Failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	ctx.JSON(categories)
}

// POST /api/categories — admin only
func CreateCategory(ctx iris.Context) {
	var input CategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_name", "category name is required")
		return
	}

	if categoryNameTaken(name, 0) {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "Category already exists")
		return
	}

	category := models.Category{Name: name}
	if err := storage.DB.Create(&category).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "Category already exists")
		return
	}

	utils.Audit(ctx, "category.create", "category", category.ID, nil, category)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(category)
}

// PUT /api/categories/:id — admin only
func UpdateCategory(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var category models.Category
	if err := storage.DB.First(&category, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Category not found", ctx)
		return
	}

	var input CategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_name", "category name is required")
		return
	}

	if categoryNameTaken(name, category.ID) {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "Category already exists")
		return
	}

	before := category
	category.Name = name
	if err := storage.DB.Save(&category).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "category.update", "category", category.ID, before, category)
	ctx.JSON(category)
}

// DELETE /api/categories/:id — admin only. No cascade: feedback keeps a
// dangling category reference after deletion.
func DeleteCategory(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var category models.Category
	if err := storage.DB.First(&category, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Category not found", ctx)
		return
	}

	if err := storage.DB.Delete(&category).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "category.delete", "category", category.ID, category, nil)
	ctx.JSON(iris.Map{"message": "Category deleted successfully"})
}

func categoryNameTaken(name string, excludeID uint) bool {
	var count int64
	query := storage.DB.Model(&models.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	query.Count(&count)
	return count > 0
}
