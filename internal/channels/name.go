package channels

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelKind identifies a logical channel family. The string channel names
// themselves are an external contract shared with the web and mobile clients
// and must be produced and parsed verbatim.
type ChannelKind string

const (
	KindUser             ChannelKind = "user"              // user.{userId}
	KindNotifications    ChannelKind = "notifications"     // notifications.{userId}
	KindChat             ChannelKind = "chat"              // chat.{userId}
	KindCourse           ChannelKind = "course"            // course.{courseId}
	KindCourseChat       ChannelKind = "course.chat"       // course.{courseId}.chat
	KindCourseControls   ChannelKind = "course.controls"   // course.{courseId}.controls
	KindClass            ChannelKind = "class"             // class.{classId}
	KindFormation        ChannelKind = "formation"         // formation.{formationId}
	KindAdmin            ChannelKind = "admin"             // admin
	KindSystemAlerts     ChannelKind = "system.alerts"     // system.alerts
	KindSystemMonitoring ChannelKind = "system.monitoring" // system.monitoring
	KindOnline           ChannelKind = "online"            // online
	KindOnlineStudents   ChannelKind = "online.students"   // online.students
	KindOnlineTeachers   ChannelKind = "online.teachers"   // online.teachers
	KindSupportTicket    ChannelKind = "support.ticket"    // support.ticket.{ticketId}
	KindAnalyticsCourse  ChannelKind = "analytics.course"  // analytics.course.{courseId}
	KindAnalyticsClass   ChannelKind = "analytics.class"   // analytics.class.{classId}
	KindCommunity        ChannelKind = "community"         // community
	KindCommunityTopic   ChannelKind = "community.topic"   // community.topic.{topicId}
	KindTypingUser       ChannelKind = "typing.user"       // typing.user.{userId}
	KindTypingCourse     ChannelKind = "typing.course"     // typing.course.{courseId}
)

// Channel is a parsed channel reference. Only the id field matching the kind
// is populated.
type Channel struct {
	Kind        ChannelKind
	UserID      string
	CourseID    uint
	ClassID     uint
	FormationID uint
	TicketID    uint
	TopicID     uint
}

// ===== NAME BUILDERS =====

func UserChannel(userID string) string          { return "user." + userID }
func NotificationsChannel(userID string) string { return "notifications." + userID }
func ChatChannel(userID string) string          { return "chat." + userID }
func TypingUserChannel(userID string) string    { return "typing.user." + userID }

func CourseChannel(courseID uint) string         { return fmt.Sprintf("course.%d", courseID) }
func CourseChatChannel(courseID uint) string     { return fmt.Sprintf("course.%d.chat", courseID) }
func CourseControlsChannel(courseID uint) string { return fmt.Sprintf("course.%d.controls", courseID) }
func TypingCourseChannel(courseID uint) string   { return fmt.Sprintf("typing.course.%d", courseID) }

func ClassChannel(classID uint) string         { return fmt.Sprintf("class.%d", classID) }
func FormationChannel(formationID uint) string { return fmt.Sprintf("formation.%d", formationID) }
func SupportTicketChannel(ticketID uint) string {
	return fmt.Sprintf("support.ticket.%d", ticketID)
}
func AnalyticsCourseChannel(courseID uint) string {
	return fmt.Sprintf("analytics.course.%d", courseID)
}
func AnalyticsClassChannel(classID uint) string { return fmt.Sprintf("analytics.class.%d", classID) }
func CommunityTopicChannel(topicID uint) string { return fmt.Sprintf("community.topic.%d", topicID) }

// ===== PARSING =====

// ParseChannelName resolves a raw channel name into a Channel reference.
// Unknown or malformed names report ok=false; callers treat that as a
// denial (fail closed).
func ParseChannelName(name string) (Channel, bool) {
	switch name {
	case "admin":
		return Channel{Kind: KindAdmin}, true
	case "system.alerts":
		return Channel{Kind: KindSystemAlerts}, true
	case "system.monitoring":
		return Channel{Kind: KindSystemMonitoring}, true
	case "online":
		return Channel{Kind: KindOnline}, true
	case "online.students":
		return Channel{Kind: KindOnlineStudents}, true
	case "online.teachers":
		return Channel{Kind: KindOnlineTeachers}, true
	case "community":
		return Channel{Kind: KindCommunity}, true
	}

	parts := strings.Split(name, ".")

	switch {
	case len(parts) == 2 && parts[0] == "user" && parts[1] != "":
		return Channel{Kind: KindUser, UserID: parts[1]}, true

	case len(parts) == 2 && parts[0] == "notifications" && parts[1] != "":
		return Channel{Kind: KindNotifications, UserID: parts[1]}, true

	case len(parts) == 2 && parts[0] == "chat" && parts[1] != "":
		return Channel{Kind: KindChat, UserID: parts[1]}, true

	case len(parts) == 2 && parts[0] == "course":
		if id, ok := parseID(parts[1]); ok {
			return Channel{Kind: KindCourse, CourseID: id}, true
		}

	case len(parts) == 3 && parts[0] == "course" && parts[2] == "chat":
		if id, ok := parseID(parts[1]); ok {
			return Channel{Kind: KindCourseChat, CourseID: id}, true
		}

	case len(parts) == 3 && parts[0] == "course" && parts[2] == "controls":
		if id, ok := parseID(parts[1]); ok {
			return Channel{Kind: KindCourseControls, CourseID: id}, true
		}

	case len(parts) == 2 && parts[0] == "class":
		if id, ok := parseID(parts[1]); ok {
			return Channel{Kind: KindClass, ClassID: id}, true
		}

	case len(parts) == 2 && parts[0] == "formation":
		if id, ok := parseID(parts[1]); ok {
			return Channel{Kind: KindFormation, FormationID: id}, true
		}

	case len(parts) == 3 && parts[0] == "support" && parts[1] == "ticket":
		if id, ok := parseID(parts[2]); ok {
			return Channel{Kind: KindSupportTicket, TicketID: id}, true
		}

	case len(parts) == 3 && parts[0] == "analytics" && parts[1] == "course":
		if id, ok := parseID(parts[2]); ok {
			return Channel{Kind: KindAnalyticsCourse, CourseID: id}, true
		}

	case len(parts) == 3 && parts[0] == "analytics" && parts[1] == "class":
		if id, ok := parseID(parts[2]); ok {
			return Channel{Kind: KindAnalyticsClass, ClassID: id}, true
		}

	case len(parts) == 3 && parts[0] == "community" && parts[1] == "topic":
		if id, ok := parseID(parts[2]); ok {
			return Channel{Kind: KindCommunityTopic, TopicID: id}, true
		}

	case len(parts) == 3 && parts[0] == "typing" && parts[1] == "user" && parts[2] != "":
		return Channel{Kind: KindTypingUser, UserID: parts[2]}, true

	case len(parts) == 3 && parts[0] == "typing" && parts[1] == "course":
		if id, ok := parseID(parts[2]); ok {
			return Channel{Kind: KindTypingCourse, CourseID: id}, true
		}
	}

	return Channel{}, false
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
