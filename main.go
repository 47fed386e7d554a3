package main

import (
	"feedback-board-server/routes"
	"feedback-board-server/storage"
	"feedback-board-server/utils"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"message": "Feedback System API is running"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/signup", routes.Signup)
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		auth.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
	}

	feedback := app.Party("/api/feedback")
	{
		feedback.Post("/", accessTokenVerifierMiddleware, routes.CreateFeedback)
		feedback.Get("/", routes.GetFeedbacks)
		feedback.Get("/{id:uint}", routes.GetFeedback)
		feedback.Put("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateFeedback)
		feedback.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteFeedback)
		feedback.Post("/{id:uint}/upvote", accessTokenVerifierMiddleware, routes.ToggleUpvote)
	}

	categories := app.Party("/api/categories")
	{
		categories.Get("/", routes.GetCategories)
		categories.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateCategory)
		categories.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.UpdateCategory)
		categories.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteCategory)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Put("/feedback/{id:uint}/status", routes.AdminUpdateFeedbackStatus)
		admin.Delete("/feedback/{id:uint}", routes.AdminDeleteFeedback)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/users", routes.AdminListUsers)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("Server running on port %s", port)
	app.Listen(fmt.Sprintf(":%s", port))
}
