package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth          *handler.AuthHandler
	Ideas         *handler.IdeaHandler
	Votes         *handler.VoteHandler
	Players       *handler.PlayerHandler
	Notifications *handler.NotificationHandler
	Ranking       *handler.RankingHandler
	Session       *handler.SessionHandler
	Admin         *handler.AdminHandler
	System        *handler.SystemHandler
}

// Guards are the access gates applied per group. Nil guards are skipped.
type Guards struct {
	// Verified rejects accounts whose email address is unconfirmed
	Verified gin.HandlerFunc
	// Admin rejects non-admin accounts
	Admin gin.HandlerFunc
	// AuthLimit throttles the credential endpoints
	AuthLimit gin.HandlerFunc
}

// APIGroups builds the domain groups of the ideation API. Authentication is
// expected to run ahead of these groups on the router itself.
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	authGroup := NewDomainGroup("auth", "/auth")
	if g.AuthLimit != nil {
		authGroup.Use(g.AuthLimit)
	}
	authGroup.POST("/signup", h.Auth.SignUp).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/profile", h.Auth.UpdateProfile).
		POST("/verify/send", h.Auth.SendVerification).
		POST("/verify/confirm", h.Auth.ConfirmVerification).
		POST("/password/reset", h.Auth.RequestPasswordReset).
		POST("/password/confirm", h.Auth.ConfirmPasswordReset)

	session := NewDomainGroup("session", "/session")
	session.GET("", h.Session.Get).
		POST("/navigate", h.Session.Navigate)

	ideas := verified(NewDomainGroup("ideas", "/ideas"), g)
	ideas.GET("", h.Ideas.List).
		POST("", h.Ideas.Create).
		POST("/images/upload-url", h.Ideas.RequestImageUpload).
		GET("/:id", h.Ideas.Get).
		PUT("/:id", h.Ideas.Update).
		POST("/:id/approve", h.Ideas.Approve).
		GET("/:id/comments", h.Ideas.ListComments).
		POST("/:id/comments", h.Ideas.CreateComment).
		GET("/:id/evaluations", h.Ideas.GetEvaluations).
		PUT("/:id/evaluations", h.Ideas.SubmitEvaluation)

	comments := verified(NewDomainGroup("comments", "/comments"), g)
	comments.PUT("/:id", h.Ideas.UpdateComment)

	votes := verified(NewDomainGroup("votes", "/votes"), g)
	votes.GET("/:target", h.Votes.Get).
		PUT("/:target", h.Votes.Cast).
		DELETE("/:target", h.Votes.Retract)

	rankingGroup := verified(NewDomainGroup("ranking", "/ranking"), g)
	rankingGroup.GET("", h.Ranking.Get).
		GET("/stream", h.Ranking.Stream)

	players := verified(NewDomainGroup("players", "/players"), g)
	players.GET("", h.Players.List).
		PUT("/me", h.Players.UpdateMe).
		POST("/me/picture", h.Players.RequestPictureUpload).
		GET("/:id", h.Players.Get)

	notifications := verified(NewDomainGroup("notifications", "/notifications"), g)
	notifications.GET("", h.Notifications.List).
		GET("/unread-count", h.Notifications.UnreadCount).
		POST("/read-all", h.Notifications.MarkAllRead).
		POST("/:id/read", h.Notifications.MarkRead)

	admin := NewDomainGroup("admin", "/admin")
	if g.Admin != nil {
		admin.Use(g.Admin)
	}
	admin.POST("/recap/run", h.Admin.RunRecap)

	system := NewDomainGroup("system", "/system")
	system.GET("/health", h.System.Health).
		GET("/info", h.System.Info)

	return []*DomainGroup{authGroup, session, ideas, comments, votes, rankingGroup, players, notifications, admin, system}
}

func verified(dg *DomainGroup, g Guards) *DomainGroup {
	if g.Verified != nil {
		dg.Use(g.Verified)
	}
	return dg
}
