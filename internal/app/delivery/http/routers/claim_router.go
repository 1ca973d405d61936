package routers

import (
	"claimdesk-service/internal/app/delivery/http/controllers"
	"claimdesk-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachClaimRoutes(router chi.Router, middlewares *middlewares.Middlewares, claimController *controllers.ClaimController) {
	router.Use(middlewares.Authenticate)

	router.Route("/{claim_id}", func(r chi.Router) {
		r.Post("/open", claimController.OpenClaim)
		r.Delete("/", claimController.CloseClaim)
		r.Get("/", claimController.Snapshot)

		r.Patch("/items/{item_id}", claimController.UpdateLineItem)
		r.Delete("/items/{item_id}", claimController.RemoveLineItem)

		r.Post("/stages/{stage}/complete", claimController.CompleteStage)
		r.Post("/stages/navigate", claimController.NavigateToStage)
		r.Post("/digitization/lock", claimController.LockDigitization)
		r.Put("/open-query", claimController.SetOpenQuery)
		r.Post("/rerun", claimController.TriggerRerun)
		r.Post("/decision", claimController.SubmitDecision)

		r.Post("/checklist/document", claimController.SelectDocument)
		r.Post("/checklist/items/{item_key}/match", claimController.MarkChecklistItem)
		r.Post("/checklist/items/{item_key}/query", claimController.RaiseChecklistQuery)
		r.Post("/checklist/submit", claimController.SubmitChecklist)

		r.Get("/documents/{document_id}/url", claimController.DocumentURL)
	})
}
