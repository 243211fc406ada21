package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
	"gorm.io/gorm"
)

// In-memory fake of the repository aggregate. Each entity fake embeds its
// interface so only the methods the services actually call need bodies; the
// aggregate also satisfies TransactionRepository by handing out itself, so
// mutations made "inside" a transaction land in the same maps.

type memRepository struct {
	formations    *memFormationRepo
	classes       *memClassRepo
	courses       *memCourseRepo
	attendances   *memAttendanceRepo
	enrollments   *memEnrollmentRepo
	payments      *memPaymentRepo
	notifications *memNotificationRepo
	messages      *memMessageRepo
	users         *memUserRepo
	tickets       *memTicketRepo

	commits   int
	rollbacks int
}

func newMemRepository() *memRepository {
	return &memRepository{
		formations:    &memFormationRepo{formations: map[uint]*models.Formation{}},
		classes:       &memClassRepo{classes: map[uint]*models.ClassModel{}},
		courses:       &memCourseRepo{courses: map[uint]*models.Course{}},
		attendances:   &memAttendanceRepo{records: map[string]*models.Attendance{}},
		enrollments:   &memEnrollmentRepo{enrollments: map[uint]*models.Enrollment{}},
		payments:      &memPaymentRepo{payments: map[uint]*models.Payment{}},
		notifications: &memNotificationRepo{notifications: map[uint]*models.Notification{}},
		messages:      &memMessageRepo{messages: map[uint]*models.Message{}},
		users:         &memUserRepo{users: map[string]*models.User{}},
		tickets:       &memTicketRepo{tickets: map[uint]*models.SupportTicket{}},
	}
}

func (r *memRepository) User() repositories.UserRepository                 { return r.users }
func (r *memRepository) Formation() repositories.FormationRepository       { return r.formations }
func (r *memRepository) Class() repositories.ClassRepository               { return r.classes }
func (r *memRepository) Course() repositories.CourseRepository             { return r.courses }
func (r *memRepository) Enrollment() repositories.EnrollmentRepository     { return r.enrollments }
func (r *memRepository) Attendance() repositories.AttendanceRepository     { return r.attendances }
func (r *memRepository) Grade() repositories.GradeRepository               { return nil }
func (r *memRepository) Payment() repositories.PaymentRepository           { return r.payments }
func (r *memRepository) Notification() repositories.NotificationRepository { return r.notifications }
func (r *memRepository) Message() repositories.MessageRepository           { return r.messages }
func (r *memRepository) Ticket() repositories.TicketRepository             { return r.tickets }

func (r *memRepository) Begin(_ context.Context) (repositories.Repository, error) { return r, nil }
func (r *memRepository) Commit(_ context.Context) error                           { r.commits++; return nil }
func (r *memRepository) Rollback(_ context.Context) error                         { r.rollbacks++; return nil }

// ===== ENTITY FAKES =====

type memFormationRepo struct {
	repositories.FormationRepository
	formations map[uint]*models.Formation
}

func (r *memFormationRepo) GetByID(_ context.Context, id uint) (*models.Formation, error) {
	formation, ok := r.formations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return formation, nil
}

func (r *memFormationRepo) AdjustEnrolledCount(_ context.Context, id uint, delta int) error {
	if formation, ok := r.formations[id]; ok {
		formation.EnrolledCount += delta
		if formation.EnrolledCount < 0 {
			formation.EnrolledCount = 0
		}
	}
	return nil
}

type memClassRepo struct {
	repositories.ClassRepository
	classes map[uint]*models.ClassModel
}

func (r *memClassRepo) GetByID(_ context.Context, id uint) (*models.ClassModel, error) {
	class, ok := r.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (r *memClassRepo) ClaimSeat(_ context.Context, id uint) (bool, error) {
	class, ok := r.classes[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if class.CurrentStudents >= class.MaxStudents {
		return false, nil
	}
	class.CurrentStudents++
	return true, nil
}

func (r *memClassRepo) ReleaseSeat(_ context.Context, id uint) error {
	if class, ok := r.classes[id]; ok && class.CurrentStudents > 0 {
		class.CurrentStudents--
	}
	return nil
}

type memCourseRepo struct {
	repositories.CourseRepository
	courses map[uint]*models.Course
	nextID  uint
}

func (r *memCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.nextID++
	course.ID = r.nextID
	r.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (r *memCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.courses[course.ID] = course
	return nil
}

type memAttendanceRepo struct {
	repositories.AttendanceRepository
	records map[string]*models.Attendance // studentID|courseID
	updates int
}

func attendanceKey(studentID string, courseID uint) string {
	return fmt.Sprintf("%s|%d", studentID, courseID)
}

func (r *memAttendanceRepo) Create(_ context.Context, attendance *models.Attendance) error {
	r.records[attendanceKey(attendance.StudentID, attendance.CourseID)] = attendance
	return nil
}

func (r *memAttendanceRepo) GetByStudentAndCourse(_ context.Context, studentID string, courseID uint) (*models.Attendance, error) {
	attendance, ok := r.records[attendanceKey(studentID, courseID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return attendance, nil
}

func (r *memAttendanceRepo) Update(_ context.Context, attendance *models.Attendance) error {
	r.updates++
	r.records[attendanceKey(attendance.StudentID, attendance.CourseID)] = attendance
	return nil
}

type memEnrollmentRepo struct {
	repositories.EnrollmentRepository
	enrollments map[uint]*models.Enrollment
	nextID      uint
	active      map[string]map[uint]bool // studentID -> classID
}

func (r *memEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	r.nextID++
	enrollment.ID = r.nextID
	r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *memEnrollmentRepo) GetByID(_ context.Context, id uint) (*models.Enrollment, error) {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

func (r *memEnrollmentRepo) GetByStudentAndFormation(_ context.Context, studentID string, formationID uint) (*models.Enrollment, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.StudentID == studentID && enrollment.FormationID == formationID {
			return enrollment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEnrollmentRepo) Update(_ context.Context, enrollment *models.Enrollment) error {
	r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *memEnrollmentRepo) List(_ context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, enrollment := range r.enrollments {
		if filters.StudentID != nil && enrollment.StudentID != *filters.StudentID {
			continue
		}
		out = append(out, enrollment)
	}
	return out, int64(len(out)), nil
}

func (r *memEnrollmentRepo) HasActiveByClass(_ context.Context, studentID string, classID uint) (bool, error) {
	return r.active[studentID][classID], nil
}

func (r *memEnrollmentRepo) UpdatePaymentStatus(_ context.Context, id uint, status models.EnrollmentPaymentStatus) error {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	enrollment.PaymentStatus = status
	return nil
}

type memPaymentRepo struct {
	repositories.PaymentRepository
	payments map[uint]*models.Payment
	nextID   uint
}

func (r *memPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.nextID++
	payment.ID = r.nextID
	r.payments[payment.ID] = payment
	return nil
}

func (r *memPaymentRepo) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (r *memPaymentRepo) Update(_ context.Context, payment *models.Payment) error {
	r.payments[payment.ID] = payment
	return nil
}

type memNotificationRepo struct {
	repositories.NotificationRepository
	notifications map[uint]*models.Notification
	nextID        uint
	updates       int
}

func (r *memNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.nextID++
	notification.ID = r.nextID
	r.notifications[notification.ID] = notification
	return nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	notification, ok := r.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return notification, nil
}

func (r *memNotificationRepo) Update(_ context.Context, notification *models.Notification) error {
	r.updates++
	r.notifications[notification.ID] = notification
	return nil
}

type memMessageRepo struct {
	repositories.MessageRepository
	messages map[uint]*models.Message
	nextID   uint
	updates  int
}

func (r *memMessageRepo) Create(_ context.Context, message *models.Message) error {
	r.nextID++
	message.ID = r.nextID
	r.messages[message.ID] = message
	return nil
}

func (r *memMessageRepo) GetByID(_ context.Context, id uint) (*models.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (r *memMessageRepo) Update(_ context.Context, message *models.Message) error {
	r.updates++
	r.messages[message.ID] = message
	return nil
}

type memTicketRepo struct {
	repositories.TicketRepository
	tickets map[uint]*models.SupportTicket
	nextID  uint
}

func (r *memTicketRepo) Create(_ context.Context, ticket *models.SupportTicket) error {
	r.nextID++
	ticket.ID = r.nextID
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id uint) (*models.SupportTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ticket, nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *models.SupportTicket) error {
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *memTicketRepo) ListByCreator(_ context.Context, creatorID string, limit, offset int) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, ticket := range r.tickets {
		if ticket.CreatedBy == creatorID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *memTicketRepo) ListByStatus(_ context.Context, status models.TicketStatus, limit, offset int) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, ticket := range r.tickets {
		if ticket.Status == status {
			out = append(out, ticket)
		}
	}
	return out, nil
}

type memUserRepo struct {
	repositories.UserRepository
	users map[string]*models.User
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

// ===== SHARED HELPERS =====

func newTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestValidator() *validator.Validator {
	return validator.New()
}

func testStudent(id string) *models.User {
	return &models.User{ID: id, FullName: "Student " + id, Role: models.RoleStudent, Status: models.UserActive}
}

func testTeacher(id string) *models.User {
	return &models.User{ID: id, FullName: "Teacher " + id, Role: models.RoleTeacher, Status: models.UserActive}
}

func testAdmin(id string) *models.User {
	return &models.User{ID: id, FullName: "Admin " + id, Role: models.RoleAdmin, Status: models.UserActive}
}

func fixedTime(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}
