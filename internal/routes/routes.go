package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/leasezero/leasezero-backend/internal/handlers"
	"github.com/leasezero/leasezero-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Public catalog and network info (no wallet required)
	r.Get("/api/properties", handlers.GetProperties)
	r.Get("/api/properties/{id}", handlers.GetProperty)
	r.Get("/api/network", handlers.GetNetworkInfo)

	// Reputation is public by address; the score leaks nothing confidential
	r.Get("/api/reputation/tenant/{address}", handlers.GetTenantReputation)
	r.Get("/api/reputation/landlord/{address}", handlers.GetLandlordReputation)

	// Everything below acts on behalf of a connected wallet
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireWallet)

		// Confidential profile (tenant portal)
		r.Get("/api/profile", handlers.GetProfile)
		r.Put("/api/profile", handlers.SaveProfile)
		r.Post("/api/profile/seal", handlers.SealProfile)
		r.Post("/api/profile/revise", handlers.ReviseProfile)

		// Eligibility and applications (tenant portal)
		r.Post("/api/properties/{propertyId}/eligibility", handlers.CheckEligibility)
		r.Post("/api/eligibility/{checkId}/reveal", handlers.RevealEligibility)
		r.Post("/api/applications", handlers.Apply)
		r.Get("/api/applications", handlers.GetTenantApplications)
		r.Post("/api/applications/{id}/documents", handlers.SubmitDocuments)
		r.Post("/api/applications/{id}/acknowledge", handlers.AcknowledgeApplication)
		r.Post("/api/applications/{id}/withdraw", handlers.WithdrawApplication)
		r.Get("/api/applications/{id}/history", handlers.GetTransitionHistory)

		// Listings and decisions (landlord portal)
		r.Get("/api/landlord/properties", handlers.GetMyProperties)
		r.Post("/api/landlord/properties", handlers.CreateProperty)
		r.Put("/api/landlord/properties/{id}", handlers.UpdateProperty)
		r.Get("/api/landlord/applications", handlers.GetLandlordApplications)
		r.Post("/api/applications/{id}/request-verification", handlers.RequestVerification)
		r.Post("/api/applications/{id}/verify-documents", handlers.VerifyDocuments)
		r.Post("/api/applications/{id}/approve", handlers.ApproveApplication)
		r.Post("/api/applications/{id}/reject", handlers.RejectApplication)

		// Portal preferences
		r.Get("/api/preferences", handlers.GetPreferences)
		r.Put("/api/preferences", handlers.SavePreferences)

		// File upload (listing images, verification documents)
		r.Post("/api/upload", handlers.UploadFile)
	})

	// WebSocket endpoint for live application updates
	r.Get("/ws/portal", handlers.PortalWebSocket)
}
