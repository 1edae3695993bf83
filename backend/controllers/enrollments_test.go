package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"project/backend/models"
)

func enroll(t *testing.T, token string, courseID uint) uint {
	t.Helper()

	resp := doJSON(t, "POST", "/api/courses/"+itoa(courseID)+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decode(t, resp)
	data := result["data"].(map[string]interface{})
	return uint(data["ID"].(float64))
}

func toggleLesson(t *testing.T, token string, enrollmentID, lessonID uint, completed bool) map[string]interface{} {
	t.Helper()

	resp := doJSON(t, "PUT", "/api/enrollments/"+itoa(enrollmentID)+"/lessons/"+itoa(lessonID), token,
		map[string]bool{"completed": completed})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	return result["data"].(map[string]interface{})
}

func TestEnrollIsAtMostOncePerPair(t *testing.T) {
	tutorToken := register(t, "enroll-tutor", "tutor")
	studentToken := register(t, "enroll-student", "student")
	courseID := createCourse(t, tutorToken, "Enroll Course", "Published")

	enroll(t, studentToken, courseID)

	// second enroll for the same pair must not create a second record
	resp := doJSON(t, "POST", "/api/courses/"+itoa(courseID)+"/enroll", studentToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	drain(resp)

	var count int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollRejectsDraftCourse(t *testing.T) {
	tutorToken := register(t, "draftenroll-tutor", "tutor")
	studentToken := register(t, "draftenroll-student", "student")
	courseID := createCourse(t, tutorToken, "Draft Enroll Course", "")

	resp := doJSON(t, "POST", "/api/courses/"+itoa(courseID)+"/enroll", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	drain(resp)
}

func TestProgressHalfwayThroughFourLessons(t *testing.T) {
	tutorToken := register(t, "progress-tutor", "tutor")
	studentToken := register(t, "progress-student", "student")
	courseID := createCourse(t, tutorToken, "Progress Course", "Published")

	lessons := map[string]uint{}
	for _, title := range []string{"l1", "l2", "l3", "l4"} {
		lessons[title] = addContent(t, tutorToken, courseID, title)
	}

	enrollmentID := enroll(t, studentToken, courseID)

	// complete lessons 1 and 3 of 4
	toggleLesson(t, studentToken, enrollmentID, lessons["l1"], true)
	data := toggleLesson(t, studentToken, enrollmentID, lessons["l3"], true)
	assert.Equal(t, float64(50), data["progress"])
	assert.Equal(t, "active", data["status"])
}

func TestToggleCompletionIsIdempotent(t *testing.T) {
	tutorToken := register(t, "idem-tutor", "tutor")
	studentToken := register(t, "idem-student", "student")
	courseID := createCourse(t, tutorToken, "Idempotent Course", "Published")

	lessonID := addContent(t, tutorToken, courseID, "only-lesson")
	otherID := addContent(t, tutorToken, courseID, "other-lesson")
	_ = otherID

	enrollmentID := enroll(t, studentToken, courseID)

	first := toggleLesson(t, studentToken, enrollmentID, lessonID, true)
	second := toggleLesson(t, studentToken, enrollmentID, lessonID, true)
	assert.Equal(t, first["progress"], second["progress"])

	var count int64
	db.Model(&models.LessonCompletion{}).Where("enrollment_id = ?", enrollmentID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUncompletingLowersProgress(t *testing.T) {
	tutorToken := register(t, "undo-tutor", "tutor")
	studentToken := register(t, "undo-student", "student")
	courseID := createCourse(t, tutorToken, "Undo Course", "Published")

	lessonID := addContent(t, tutorToken, courseID, "undo-l1")
	addContent(t, tutorToken, courseID, "undo-l2")

	enrollmentID := enroll(t, studentToken, courseID)

	data := toggleLesson(t, studentToken, enrollmentID, lessonID, true)
	assert.Equal(t, float64(50), data["progress"])

	data = toggleLesson(t, studentToken, enrollmentID, lessonID, false)
	assert.Equal(t, float64(0), data["progress"])
}

func TestCompletingEveryLessonCompletesEnrollment(t *testing.T) {
	tutorToken := register(t, "full-tutor", "tutor")
	studentToken := register(t, "full-student", "student")
	courseID := createCourse(t, tutorToken, "Full Course", "Published")

	first := addContent(t, tutorToken, courseID, "full-l1")
	second := addContent(t, tutorToken, courseID, "full-l2")

	enrollmentID := enroll(t, studentToken, courseID)

	toggleLesson(t, studentToken, enrollmentID, first, true)
	data := toggleLesson(t, studentToken, enrollmentID, second, true)
	assert.Equal(t, float64(100), data["progress"])
	assert.Equal(t, "completed", data["status"])
}

func TestToggleForeignEnrollmentForbidden(t *testing.T) {
	tutorToken := register(t, "foreign-tutor", "tutor")
	ownerToken := register(t, "foreign-owner", "student")
	intruderToken := register(t, "foreign-intruder", "student")
	courseID := createCourse(t, tutorToken, "Foreign Course", "Published")
	lessonID := addContent(t, tutorToken, courseID, "foreign-l1")

	enrollmentID := enroll(t, ownerToken, courseID)

	resp := doJSON(t, "PUT", "/api/enrollments/"+itoa(enrollmentID)+"/lessons/"+itoa(lessonID), intruderToken,
		map[string]bool{"completed": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	drain(resp)
}

func TestGetEnrollmentStatus(t *testing.T) {
	tutorToken := register(t, "status-tutor", "tutor")
	studentToken := register(t, "status-student", "student")
	courseID := createCourse(t, tutorToken, "Status Course", "Published")

	// not enrolled yet
	resp := doJSON(t, "GET", "/api/courses/"+itoa(courseID)+"/enrollment", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	drain(resp)

	enroll(t, studentToken, courseID)

	resp = doJSON(t, "GET", "/api/courses/"+itoa(courseID)+"/enrollment", studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decode(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["Progress"])
}
