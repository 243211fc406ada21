package channels

import (
	"context"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
)

// SubscriberIdentity is the attested identity payload exposed to the other
// subscribers of a channel when a subscription is allowed.
type SubscriberIdentity struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
	Avatar string          `json:"avatar,omitempty"`
}

// Decision is the tagged outcome of a channel authorization: either a denial
// or an identity attestation. Predicates are total; they never return errors
// to the subscriber, and any lookup failure folds into a denial.
type Decision struct {
	Granted  bool                `json:"granted"`
	Identity *SubscriberIdentity `json:"identity,omitempty"`
}

func Allow(identity SubscriberIdentity) Decision {
	return Decision{Granted: true, Identity: &identity}
}

func Deny() Decision {
	return Decision{}
}

// Authorizer decides channel subscriptions. Every decision re-reads the
// database; grants are never cached across subscribe attempts.
type Authorizer struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAuthorizer(repo repositories.Repository, logger utils.Logger) *Authorizer {
	return &Authorizer{repo: repo, logger: logger}
}

// Authorize evaluates the predicate for the channel family encoded in name.
// Fail closed: unknown channels, missing resources and lookup errors all
// deny, never error.
func (a *Authorizer) Authorize(ctx context.Context, principal *models.User, name string) Decision {
	if principal == nil || !principal.IsActive() {
		return Deny()
	}

	channel, ok := ParseChannelName(name)
	if !ok {
		a.logger.Debug("Denying unknown channel", "channel", name)
		return Deny()
	}

	switch channel.Kind {
	case KindUser, KindNotifications, KindChat:
		return a.authorizeUserChannel(principal, channel.UserID)

	case KindTypingUser:
		return a.authorizeUserChannel(principal, channel.UserID)

	case KindCourse, KindCourseChat, KindTypingCourse:
		return a.authorizeCourseChannel(ctx, principal, channel.CourseID)

	case KindCourseControls:
		return a.authorizeCourseControlsChannel(ctx, principal, channel.CourseID)

	case KindClass:
		return a.authorizeClassChannel(ctx, principal, channel.ClassID)

	case KindFormation:
		return a.authorizeFormationChannel(ctx, principal, channel.FormationID)

	case KindAdmin, KindSystemAlerts, KindSystemMonitoring:
		return a.authorizeAdminChannel(principal)

	case KindSupportTicket:
		return a.authorizeSupportTicketChannel(ctx, principal, channel.TicketID)

	case KindAnalyticsCourse:
		return a.authorizeAnalyticsCourseChannel(ctx, principal, channel.CourseID)

	case KindAnalyticsClass:
		return a.authorizeAnalyticsClassChannel(ctx, principal, channel.ClassID)

	case KindOnline, KindCommunity, KindCommunityTopic:
		return Allow(a.identity(principal))

	case KindOnlineStudents:
		return a.authorizeRoleScopedPresence(principal, models.RoleStudent)

	case KindOnlineTeachers:
		return a.authorizeRoleScopedPresence(principal, models.RoleTeacher)
	}

	return Deny()
}

// ===== PER-FAMILY PREDICATES =====

// authorizeUserChannel allows only the user the channel is addressed to.
func (a *Authorizer) authorizeUserChannel(principal *models.User, targetUserID string) Decision {
	if principal.ID != targetUserID {
		return Deny()
	}
	return Allow(a.identity(principal))
}

// authorizeCourseChannel allows the owning teacher, or a student with an
// active enrollment in the course's class. The same predicate governs the
// course chat and typing sub-channels.
func (a *Authorizer) authorizeCourseChannel(ctx context.Context, principal *models.User, courseID uint) Decision {
	course, err := a.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		a.logDenial(err, "course", courseID)
		return Deny()
	}

	if principal.ID == course.TeacherID {
		return Allow(a.identityWithRole(principal, models.RoleTeacher))
	}

	if principal.IsStudent() {
		enrolled, err := a.repo.Enrollment().HasActiveByClass(ctx, principal.ID, course.ClassID)
		if err != nil {
			a.logDenial(err, "course", courseID)
			return Deny()
		}
		if enrolled {
			return Allow(a.identityWithRole(principal, models.RoleStudent))
		}
	}

	return Deny()
}

// authorizeCourseControlsChannel is stricter than the general course
// channel: it carries mute/remove/record commands, so only the exact owning
// teacher may subscribe.
func (a *Authorizer) authorizeCourseControlsChannel(ctx context.Context, principal *models.User, courseID uint) Decision {
	course, err := a.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		a.logDenial(err, "course", courseID)
		return Deny()
	}

	if principal.ID != course.TeacherID {
		return Deny()
	}
	return Allow(a.identityWithRole(principal, models.RoleTeacher))
}

// authorizeClassChannel allows admins unconditionally, the teacher of any
// course in the class, and students with an active enrollment in the class.
func (a *Authorizer) authorizeClassChannel(ctx context.Context, principal *models.User, classID uint) Decision {
	exists, err := a.repo.Class().ExistsByID(ctx, classID)
	if err != nil || !exists {
		a.logDenial(err, "class", classID)
		return Deny()
	}

	if principal.IsAdmin() {
		return Allow(a.identity(principal))
	}

	if principal.IsTeacher() {
		teaches, err := a.repo.Course().IsClassTeacher(ctx, principal.ID, classID)
		if err != nil {
			a.logDenial(err, "class", classID)
			return Deny()
		}
		if teaches {
			return Allow(a.identity(principal))
		}
	}

	if principal.IsStudent() {
		enrolled, err := a.repo.Enrollment().HasActiveByClass(ctx, principal.ID, classID)
		if err != nil {
			a.logDenial(err, "class", classID)
			return Deny()
		}
		if enrolled {
			return Allow(a.identity(principal))
		}
	}

	return Deny()
}

// authorizeFormationChannel allows admins and teachers unconditionally, and
// students with an active enrollment in the formation.
func (a *Authorizer) authorizeFormationChannel(ctx context.Context, principal *models.User, formationID uint) Decision {
	exists, err := a.repo.Formation().ExistsByID(ctx, formationID)
	if err != nil || !exists {
		a.logDenial(err, "formation", formationID)
		return Deny()
	}

	if principal.IsAdmin() || principal.IsTeacher() {
		return Allow(a.identity(principal))
	}

	enrolled, err := a.repo.Enrollment().HasActiveByFormation(ctx, principal.ID, formationID)
	if err != nil {
		a.logDenial(err, "formation", formationID)
		return Deny()
	}
	if enrolled {
		return Allow(a.identity(principal))
	}

	return Deny()
}

func (a *Authorizer) authorizeAdminChannel(principal *models.User) Decision {
	if !principal.IsAdmin() {
		return Deny()
	}
	return Allow(a.identity(principal))
}

// authorizeSupportTicketChannel allows the ticket's creator or any admin.
func (a *Authorizer) authorizeSupportTicketChannel(ctx context.Context, principal *models.User, ticketID uint) Decision {
	ticket, err := a.repo.Ticket().GetByID(ctx, ticketID)
	if err != nil {
		a.logDenial(err, "ticket", ticketID)
		return Deny()
	}

	if principal.IsAdmin() || principal.ID == ticket.CreatedBy {
		return Allow(a.identity(principal))
	}
	return Deny()
}

// authorizeAnalyticsCourseChannel allows the owning teacher or any admin,
// never students.
func (a *Authorizer) authorizeAnalyticsCourseChannel(ctx context.Context, principal *models.User, courseID uint) Decision {
	course, err := a.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		a.logDenial(err, "course", courseID)
		return Deny()
	}

	if principal.IsAdmin() || principal.ID == course.TeacherID {
		return Allow(a.identity(principal))
	}
	return Deny()
}

func (a *Authorizer) authorizeAnalyticsClassChannel(ctx context.Context, principal *models.User, classID uint) Decision {
	exists, err := a.repo.Class().ExistsByID(ctx, classID)
	if err != nil || !exists {
		a.logDenial(err, "class", classID)
		return Deny()
	}

	if principal.IsAdmin() {
		return Allow(a.identity(principal))
	}

	if principal.IsTeacher() {
		teaches, err := a.repo.Course().IsClassTeacher(ctx, principal.ID, classID)
		if err != nil {
			a.logDenial(err, "class", classID)
			return Deny()
		}
		if teaches {
			return Allow(a.identity(principal))
		}
	}

	return Deny()
}

// authorizeRoleScopedPresence filters the online.* variants by exact role.
func (a *Authorizer) authorizeRoleScopedPresence(principal *models.User, role models.UserRole) Decision {
	if !principal.HasRole(role) {
		return Deny()
	}
	return Allow(a.identity(principal))
}

// ===== HELPERS =====

func (a *Authorizer) identity(principal *models.User) SubscriberIdentity {
	return a.identityWithRole(principal, principal.Role)
}

// identityWithRole attests the principal's relationship to the resource,
// which may differ from the stored role only in that it is the relationship
// that granted access (e.g. the owning teacher on a course channel).
func (a *Authorizer) identityWithRole(principal *models.User, role models.UserRole) SubscriberIdentity {
	return SubscriberIdentity{
		ID:     principal.ID,
		Name:   principal.FullName,
		Role:   role,
		Avatar: principal.Avatar(),
	}
}

func (a *Authorizer) logDenial(err error, resource string, id uint) {
	if err != nil && !repositories.IsNotFoundError(err) {
		a.logger.Warn("Channel lookup failed, denying", "resource", resource, "resource_id", id, "error", err)
	}
}
