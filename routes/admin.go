package routes

import (
	"feedback-board-server/models"
	"feedback-board-server/services"
	"feedback-board-server/storage"
	"feedback-board-server/utils"
	"net/http"

	"github.com/kataras/iris/v12"
)

// PUT /admin/feedback/:id/status { status }
func AdminUpdateFeedbackStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.ReadJSON(&body); err != nil || !models.IsValidFeedbackStatus(body.Status) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_status", "Invalid status")
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Feedback not found", ctx)
		return
	}

	// No ownership check: admin overrides any owner
	before := feedback
	feedback.Status = body.Status
	if err := storage.DB.Save(&feedback).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "feedback.status", "feedback", feedback.ID, before, feedback)

	populated := getPopulatedFeedback(feedback.ID, ctx)
	if populated == nil {
		return
	}
	ctx.JSON(populated)
}

// DELETE /admin/feedback/:id — deletes regardless of owner
func AdminDeleteFeedback(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Feedback not found", ctx)
		return
	}

	if err := storage.DB.Select("Upvotes").Delete(&feedback).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "feedback.force_delete", "feedback", feedback.ID, feedback, nil)
	ctx.JSON(iris.Map{"message": "Feedback deleted successfully"})
}

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	stats, err := services.NewStatsService(storage.DB).DashboardStats()
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(stats)
}

// GET /admin/users — password excluded, newest first
func AdminListUsers(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if users == nil {
		users = []models.User{}
	}
	ctx.JSON(users)
}
