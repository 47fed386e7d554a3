package routes

import (
	"feedback-board-server/models"
	"feedback-board-server/storage"
	"feedback-board-server/utils"
	"math"
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

type CreateFeedbackInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Message    string `json:"message" validate:"required"`
	CategoryID uint   `json:"category" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}

type UpdateFeedbackInput struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	CategoryID uint   `json:"category"`
	Rating     int    `json:"rating"`
}

// POST /api/feedback — create a feedback item (auth required)
func CreateFeedback(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !categoryExists(input.CategoryID) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_category", "category does not exist")
		return
	}

	feedback := models.Feedback{
		UserID:     claims.ID,
		Title:      input.Title,
		Message:    input.Message,
		CategoryID: input.CategoryID,
		Rating:     input.Rating,
		Status:     models.StatusOpen,
	}
	if err := storage.DB.Create(&feedback).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	populated := getPopulatedFeedback(feedback.ID, ctx)
	if populated == nil {
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(populated)
}

// GET /api/feedback — list with filters, sort and pagination (public)
func GetFeedbacks(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := storage.DB.Model(&models.Feedback{})

	if search := strings.TrimSpace(ctx.URLParam("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(title) LIKE ? OR lower(message) LIKE ?", like, like)
	}
	if category := ctx.URLParamIntDefault("category", 0); category > 0 {
		query = query.Where("category_id = ?", category)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if rating := ctx.URLParamIntDefault("rating", 0); rating > 0 {
		query = query.Where("rating = ?", rating)
	}
	if user := ctx.URLParamIntDefault("user", 0); user > 0 {
		query = query.Where("user_id = ?", user)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	var feedbacks []models.Feedback
	err := query.
		Preload("User").Preload("Category").Preload("Upvotes").
		Order(parseSortKey(ctx.URLParamDefault("sort", "-createdAt"))).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	ctx.JSON(iris.Map{
		"feedbacks": feedbacks,
		"page":      page,
		"pages":     int(math.Ceil(float64(total) / float64(limit))),
		"total":     total,
	})
}

// GET /api/feedback/:id
func GetFeedback(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	feedback := getPopulatedFeedback(id, ctx)
	if feedback == nil {
		return
	}
	ctx.JSON(feedback)
}

// PUT /api/feedback/:id — partial update, owner only
func UpdateFeedback(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	if feedback.UserID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to update this feedback", ctx)
		return
	}

	var input UpdateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Omitted (zero-valued) fields stay unchanged
	if input.Title != "" {
		feedback.Title = input.Title
	}
	if input.Message != "" {
		feedback.Message = input.Message
	}
	if input.CategoryID != 0 {
		if !categoryExists(input.CategoryID) {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_category", "category does not exist")
			return
		}
		feedback.CategoryID = input.CategoryID
	}
	if input.Rating != 0 {
		if input.Rating < 1 || input.Rating > 5 {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
			return
		}
		feedback.Rating = input.Rating
	}

	if err := storage.DB.Save(&feedback).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	populated := getPopulatedFeedback(feedback.ID, ctx)
	if populated == nil {
		return
	}
	ctx.JSON(populated)
}

// DELETE /api/feedback/:id — owner only
func DeleteFeedback(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	if feedback.UserID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to delete this feedback", ctx)
		return
	}

	if err := storage.DB.Select("Upvotes").Delete(&feedback).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{"message": "Feedback deleted successfully"})
}

// POST /api/feedback/:id/upvote — membership flip on the upvoter set.
// Read-scan-flip-save; concurrent flips are last-write-wins.
func ToggleUpvote(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var feedback models.Feedback
	if err := storage.DB.Preload("Upvotes").First(&feedback, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	var upvoter models.User
	upvoter.ID = claims.ID

	index := slices.IndexFunc(feedback.Upvotes, func(u models.User) bool {
		return u.ID == claims.ID
	})

	association := storage.DB.Model(&feedback).Association("Upvotes")
	if index > -1 {
		err = association.Delete(&upvoter)
	} else {
		err = association.Append(&upvoter)
	}
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	populated := getPopulatedFeedback(feedback.ID, ctx)
	if populated == nil {
		return
	}
	ctx.JSON(populated)
}

// getPopulatedFeedback loads a feedback item with its user, category and
// upvoter references resolved. Writes the error response itself and
// returns nil when the record is absent.
func getPopulatedFeedback(id uint, ctx iris.Context) *models.Feedback {
	var feedback models.Feedback
	result := storage.DB.
		Preload("User").Preload("Category").Preload("Upvotes").
		Where("id = ?", id).Find(&feedback)

	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Feedback not found", ctx)
		return nil
	}
	if feedback.Upvotes == nil {
		feedback.Upvotes = []models.User{}
	}
	return &feedback
}

func categoryExists(id uint) bool {
	var count int64
	storage.DB.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// parseSortKey maps client sort keys onto an allow-list of columns so
// raw query strings never reach the ORDER BY clause. A leading "-"
// requests descending order. Unknown keys fall back to newest-first.
func parseSortKey(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	key := strings.TrimPrefix(sort, "-")

	column, ok := map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"rating":    "rating",
		"title":     "title",
		"status":    "status",
	}[key]
	if !ok {
		return "created_at DESC, id DESC"
	}
	// Secondary id key keeps pages stable when timestamps tie
	if desc {
		return column + " DESC, id DESC"
	}
	return column + " ASC, id ASC"
}
