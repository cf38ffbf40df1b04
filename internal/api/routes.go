package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/lang/:lang", handler.SetLanguage)

	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/login", handler.SessionMiddleware, handler.ShowLoginPage)
	app.Post("/login", handler.SessionMiddleware, handler.Login)
	app.Post("/logout", handler.SessionMiddleware, handler.Logout)

	app.Get("/", handler.SessionMiddleware, handler.OperatorRequired, handler.ShowLabelPage)
	app.Get("/print", handler.SessionMiddleware, handler.OperatorRequired, handler.ShowPrintPage)
	app.Get("/partials/previews", handler.SessionMiddleware, handler.OperatorRequired, handler.PreviewsPartial)
	app.Post("/label", handler.SessionMiddleware, handler.OperatorRequired, handler.UpdateLabelForm)
	app.Post("/label/reset", handler.SessionMiddleware, handler.OperatorRequired, handler.ResetLabelForm)
	app.Post("/label/counseling", handler.SessionMiddleware, handler.OperatorRequired, handler.AddCounselingForm)
	app.Post("/label/counseling/:index/delete", handler.SessionMiddleware, handler.OperatorRequired, handler.DeleteCounselingForm)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.SessionMiddleware, handler.OperatorRequired)

	api.Get("/label", handler.GetLabel)
	api.Patch("/label", handler.PatchLabel)
	api.Delete("/label", handler.DeleteLabel)
	api.Get("/label/instruction", handler.GetInstruction)
	api.Get("/label/previews", handler.GetPreviews)
	api.Post("/label/counseling", handler.AddCounseling)
	api.Delete("/label/counseling/:index", handler.DeleteCounseling)
	api.Get("/counseling/options", handler.GetCounselingOptions)

	api.Get("/dictation", handler.DictationStatus)
	api.Post("/dictation/start", handler.StartDictation)
	api.Post("/dictation/events", handler.PushDictation)
	api.Post("/dictation/stop", handler.StopDictation)
	api.Post("/dictation/error", handler.FailDictation)
}
