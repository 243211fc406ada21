package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/channels"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	broadcastingHandler *BroadcastingHandler
	catalogHandler      *CatalogHandler
	courseHandler       *CourseHandler
	enrollmentHandler   *EnrollmentHandler
	paymentHandler      *PaymentHandler
	notificationHandler *NotificationHandler
	gradeHandler        *GradeHandler
	presenceHandler     *PresenceHandler
	ticketHandler       *TicketHandler

	tokenParser TokenParser
	users       repositories.UserRepository
	logger      utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authorizer *channels.Authorizer,
	tokenParser TokenParser,
	users repositories.UserRepository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		broadcastingHandler: NewBroadcastingHandler(authorizer, logger),
		catalogHandler:      NewCatalogHandler(serviceManager.Catalog(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler:   NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		paymentHandler:      NewPaymentHandler(serviceManager.Payment(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		gradeHandler:        NewGradeHandler(serviceManager.Grade(), serviceManager.Report(), logger),
		presenceHandler:     NewPresenceHandler(serviceManager.Presence(), logger),
		ticketHandler:       NewTicketHandler(serviceManager.Ticket(), logger),
		tokenParser:         tokenParser,
		users:               users,
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "classroom-service",
		})
	})

	auth := AuthMiddleware(hm.tokenParser, hm.users, hm.logger)

	// Channel subscription authorization
	router.POST("/broadcasting/auth", auth, hm.broadcastingHandler.Authorize)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		// Formation routes
		formations := v1.Group("/formations")
		{
			formations.POST("", hm.catalogHandler.CreateFormation)
			formations.GET("", hm.catalogHandler.ListFormations)
			formations.GET("/:id", hm.catalogHandler.GetFormation)
			formations.POST("/:id/publish", hm.catalogHandler.PublishFormation)
			formations.GET("/:id/stats", hm.catalogHandler.GetFormationStats)
			formations.GET("/:id/classes", hm.catalogHandler.ListFormationClasses)
		}

		// Class routes
		classes := v1.Group("/classes")
		{
			classes.POST("", hm.catalogHandler.CreateClass)
			classes.GET("/mine", hm.catalogHandler.ListMyClasses)
			classes.GET("/:id", hm.catalogHandler.GetClass)
			classes.GET("/:id/stats", hm.catalogHandler.GetClassStats)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.POST("/:id/start", hm.courseHandler.StartCourse)
			courses.POST("/:id/complete", hm.courseHandler.CompleteCourse)
			courses.POST("/:id/cancel", hm.courseHandler.CancelCourse)
			courses.POST("/:id/reschedule", hm.courseHandler.RescheduleCourse)
			courses.POST("/:id/join", hm.courseHandler.JoinCourse)
			courses.POST("/:id/checkout", hm.courseHandler.CheckOutCourse)

			// Grades and reports
			courses.GET("/:id/grades", hm.gradeHandler.ListCourseGrades)
			courses.GET("/:id/reports/attendance", hm.gradeHandler.ExportAttendanceReport)
			courses.GET("/:id/reports/grades", hm.gradeHandler.ExportGradeReport)
		}

		// Enrollment routes
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
			enrollments.GET("/:id", hm.enrollmentHandler.GetEnrollment)
			enrollments.DELETE("/:id", hm.enrollmentHandler.Withdraw)
			enrollments.PUT("/:id/progress", hm.enrollmentHandler.UpdateProgress)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", hm.paymentHandler.CreatePayment)
			payments.GET("/:id", hm.paymentHandler.GetPayment)
			payments.POST("/:id/complete", hm.paymentHandler.CompletePayment)
			payments.POST("/:id/fail", hm.paymentHandler.FailPayment)
			payments.POST("/:id/refund", hm.paymentHandler.RefundPayment)
		}

		// Grade routes
		grades := v1.Group("/grades")
		{
			grades.POST("", hm.gradeHandler.RecordGrade)
			grades.PUT("/:id", hm.gradeHandler.UpdateGrade)
			grades.DELETE("/:id", hm.gradeHandler.DeleteGrade)
			grades.GET("/student/:student_id", hm.gradeHandler.ListStudentGrades)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread-count", hm.notificationHandler.CountUnread)
			notifications.POST("/:id/read", hm.notificationHandler.MarkNotificationRead)
		}

		// Message routes
		messages := v1.Group("/messages")
		{
			messages.POST("", hm.notificationHandler.SendMessage)
			messages.POST("/:id/read", hm.notificationHandler.MarkMessageRead)
			messages.GET("/conversation/:user_id", hm.notificationHandler.GetConversation)
		}

		// Presence routes
		presence := v1.Group("/presence")
		{
			presence.POST("/connect", hm.presenceHandler.Connect)
			presence.POST("/disconnect", hm.presenceHandler.Disconnect)
			presence.POST("/heartbeat", hm.presenceHandler.Heartbeat)
			presence.GET("/online", hm.presenceHandler.ListOnline)
		}

		// Support ticket routes
		tickets := v1.Group("/tickets")
		{
			tickets.POST("", hm.ticketHandler.CreateTicket)
			tickets.GET("", hm.ticketHandler.ListMyTickets)
			tickets.GET("/all", hm.ticketHandler.ListTicketsByStatus)
			tickets.GET("/:id", hm.ticketHandler.GetTicket)
			tickets.POST("/:id/close", hm.ticketHandler.CloseTicket)
		}
	}
}
