package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/middleware"
	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Student      *StudentHandler
	Point        *PointHandler
	Ranking      *RankingHandler
	Attendance   *AttendanceHandler
	Mission      *MissionHandler
	VOD          *VODHandler
	Schedule     *ScheduleHandler
	Notice       *NoticeHandler
	QnA          *QnAHandler
	Consultation *ConsultationHandler
	Revenue      *RevenueHandler
	Export       *ExportHandler
	Dashboard    *DashboardHandler
}

// RegisterRoutes mounts the API surface under /api/v1. Write access to
// admin resources requires the ADMIN role; students reach their own data
// through SELF-scoped routes.
func RegisterRoutes(r *gin.Engine, h Handlers, authSvc *service.AuthService, metrics *service.MetricsService) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Metrics(metrics))

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/me", middleware.JWT(authSvc), h.Auth.Me)
	}

	authed := v1.Group("")
	authed.Use(middleware.JWT(authSvc))

	students := authed.Group("/students")
	{
		students.GET("", middleware.RequireRoles(models.RoleAdmin), h.Student.List)
		students.GET("/:id", middleware.RBAC("ADMIN", "SELF"), h.Student.Get)
		students.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Student.Update)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Student.Delete)
		students.PUT("/:id/post-count", middleware.RequireRoles(models.RoleAdmin), h.Student.SetPostCount)
		students.GET("/:id/tree", middleware.RBAC("ADMIN", "SELF"), h.Student.TreeLevel)
		students.GET("/:id/attendance", middleware.RBAC("ADMIN", "SELF"), h.Attendance.StudentSummary)

		students.GET("/:id/points", middleware.RBAC("ADMIN", "SELF"), h.Point.History)
		students.POST("/:id/points/adjust", middleware.RequireRoles(models.RoleAdmin), h.Point.Adjust)
		students.POST("/:id/points/reset", middleware.RequireRoles(models.RoleAdmin), h.Point.Reset)
		students.GET("/:id/points/audit", middleware.RequireRoles(models.RoleAdmin), h.Point.Audit)
	}

	rankings := authed.Group("/rankings")
	{
		rankings.GET("/individual", h.Ranking.Individual)
		rankings.GET("/team", h.Ranking.Team)
		rankings.GET("/me", h.Ranking.Mine)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.POST("/check-in", h.Attendance.CheckIn)
		attendance.GET("/me", h.Attendance.Summary)
	}

	missions := authed.Group("/missions")
	{
		missions.GET("", h.Mission.List)
		missions.GET("/me", h.Mission.MyCompletions)
		missions.GET("/:id", h.Mission.Get)
		missions.POST("", middleware.RequireRoles(models.RoleAdmin), h.Mission.Create)
		missions.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Mission.Update)
		missions.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Mission.Delete)
		missions.POST("/:id/complete", h.Mission.Complete)
	}

	vod := authed.Group("/vod")
	{
		vod.GET("/assignments", h.VOD.ListAssignments)
		vod.POST("/assignments", middleware.RequireRoles(models.RoleAdmin), h.VOD.CreateAssignment)
		vod.PUT("/assignments/:id", middleware.RequireRoles(models.RoleAdmin), h.VOD.UpdateAssignment)
		vod.DELETE("/assignments/:id", middleware.RequireRoles(models.RoleAdmin), h.VOD.DeleteAssignment)
		vod.POST("/assignments/:id/submissions", h.VOD.Submit)
		vod.GET("/assignments/:id/submissions", middleware.RequireRoles(models.RoleAdmin), h.VOD.Submissions)
		vod.GET("/submissions/me", h.VOD.MySubmissions)
		vod.POST("/submissions/:id/feedback", middleware.RequireRoles(models.RoleAdmin), h.VOD.GiveFeedback)
	}

	schedule := authed.Group("/schedule")
	{
		schedule.GET("", h.Schedule.Overview)
		schedule.POST("", middleware.RequireRoles(models.RoleAdmin), h.Schedule.Create)
		schedule.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Schedule.Update)
		schedule.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Schedule.Delete)
	}

	notices := authed.Group("/notices")
	{
		notices.GET("", h.Notice.List)
		notices.GET("/:id", h.Notice.Get)
		notices.POST("", middleware.RequireRoles(models.RoleAdmin), h.Notice.Create)
		notices.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Notice.Update)
		notices.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Notice.Delete)
	}

	links := authed.Group("/links")
	{
		links.GET("", h.Notice.Links)
		links.POST("", middleware.RequireRoles(models.RoleAdmin), h.Notice.CreateLink)
		links.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Notice.DeleteLink)
	}

	qna := authed.Group("/qna")
	{
		qna.GET("", h.QnA.List)
		qna.GET("/:id", h.QnA.Get)
		qna.POST("", h.QnA.Ask)
		qna.POST("/:id/answer", middleware.RequireRoles(models.RoleAdmin), h.QnA.Answer)
		qna.DELETE("/:id", h.QnA.Delete)
	}

	consultations := authed.Group("/consultations")
	{
		consultations.GET("/slots", h.Consultation.Slots)
		consultations.POST("/slots", middleware.RequireRoles(models.RoleAdmin), h.Consultation.CreateSlot)
		consultations.DELETE("/slots/:id", middleware.RequireRoles(models.RoleAdmin), h.Consultation.DeleteSlot)
		consultations.POST("/slots/:id/book", h.Consultation.Book)
		consultations.GET("", h.Consultation.Bookings)
		consultations.DELETE("/:id", h.Consultation.Cancel)
		consultations.POST("/:id/complete", middleware.RequireRoles(models.RoleAdmin), h.Consultation.Complete)
	}

	revenue := authed.Group("/revenue-proofs")
	{
		revenue.GET("", h.Revenue.List)
		revenue.POST("", h.Revenue.Submit)
		revenue.POST("/:id/review", middleware.RequireRoles(models.RoleAdmin), h.Revenue.Review)
	}

	exports := authed.Group("/exports")
	exports.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		exports.GET("/leaderboard", h.Export.Leaderboard)
		exports.GET("/students/:id/points", h.Export.PointHistory)
	}

	authed.GET("/dashboard", middleware.RequireRoles(models.RoleAdmin), h.Dashboard.Summary)
}
