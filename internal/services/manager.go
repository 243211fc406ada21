package services

import (
	"github.com/SAP-F-2025/classroom-service/internal/cache"
	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

// ServiceManager bundles the service layer for handler wiring.
type ServiceManager interface {
	Catalog() CatalogService
	Enrollment() EnrollmentService
	Course() CourseService
	Payment() PaymentService
	Notification() NotificationService
	Grade() GradeService
	Report() ReportService
	Presence() PresenceService
	Ticket() TicketService
}

type serviceManager struct {
	catalog      CatalogService
	enrollment   EnrollmentService
	course       CourseService
	payment      PaymentService
	notification NotificationService
	grade        GradeService
	report       ReportService
	presence     PresenceService
	ticket       TicketService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	presenceStore cache.PresenceStore,
	logger utils.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		catalog:      NewCatalogService(repo, logger, validator),
		enrollment:   NewEnrollmentService(repo, publisher, logger, validator),
		course:       NewCourseService(repo, publisher, logger, validator),
		payment:      NewPaymentService(repo, publisher, logger, validator),
		notification: NewNotificationService(repo, publisher, logger, validator),
		grade:        NewGradeService(repo, logger, validator),
		report:       NewReportService(repo, logger),
		presence:     NewPresenceService(presenceStore, logger),
		ticket:       NewTicketService(repo, logger, validator),
	}
}

func (m *serviceManager) Catalog() CatalogService           { return m.catalog }
func (m *serviceManager) Enrollment() EnrollmentService     { return m.enrollment }
func (m *serviceManager) Course() CourseService             { return m.course }
func (m *serviceManager) Payment() PaymentService           { return m.payment }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) Grade() GradeService               { return m.grade }
func (m *serviceManager) Report() ReportService             { return m.report }
func (m *serviceManager) Presence() PresenceService         { return m.presence }
func (m *serviceManager) Ticket() TicketService             { return m.ticket }
