package controllers

import (
	"errors"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

// Enroll creates an enrollment for the caller. At most one enrollment
// exists per (user, course) pair; a second call answers 409.
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ec.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if course.Status != models.CoursePublished {
		return utils.NotFound(c, "Course not found")
	}

	var existing models.Enrollment
	err = ec.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return utils.Conflict(c, "Already enrolled")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   models.EnrollmentActive,
		Progress: 0,
	}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		// the unique (user, course) index closes the check-then-create race
		return utils.Conflict(c, "Already enrolled")
	}

	return utils.Created(c, enrollment)
}

// GetEnrollment reports whether the caller is enrolled in the course.
func (ec *EnrollmentsController) GetEnrollment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var enrollment models.Enrollment
	err = ec.DB.Preload("Completions").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not enrolled")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, enrollment)
}

// GetEnrollments lists the caller's enrollments with course titles.
func (ec *EnrollmentsController) GetEnrollments(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var enrollments []models.Enrollment
	if err := ec.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var result []fiber.Map
	for _, enrollment := range enrollments {
		var course models.Course
		if err := ec.DB.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"id":            enrollment.ID,
			"course_id":     course.ID,
			"course_title":  course.Title,
			"thumbnail_url": course.ThumbnailURL,
			"status":        enrollment.Status,
			"progress":      enrollment.Progress,
			"enrolled_at":   enrollment.CreatedAt,
			"last_updated":  enrollment.UpdatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// ToggleCompletion marks one lesson of the enrollment complete or not
// and recomputes the derived progress percent. The completion row and
// the progress update commit together, so a failure rolls the toggle
// back. Repeating a toggle with the same value changes nothing.
func (ec *EnrollmentsController) ToggleCompletion(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid enrollment ID")
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Completed bool `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var enrollment models.Enrollment
	if err := ec.DB.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Enrollment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if enrollment.UserID != userID {
		return utils.Forbidden(c, "Not your enrollment")
	}

	var lesson models.ContentItem
	if err := ec.DB.Where("id = ? AND course_id = ?", lessonID, enrollment.CourseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found in this course")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		if input.Completed {
			completion := models.LessonCompletion{
				EnrollmentID:  enrollment.ID,
				ContentItemID: lesson.ID,
				CompletedAt:   time.Now(),
			}
			err := tx.Where("enrollment_id = ? AND content_item_id = ?", enrollment.ID, lesson.ID).
				FirstOrCreate(&completion).Error
			if err != nil {
				return err
			}
		} else {
			err := tx.Where("enrollment_id = ? AND content_item_id = ?", enrollment.ID, lesson.ID).
				Delete(&models.LessonCompletion{}).Error
			if err != nil {
				return err
			}
		}

		var completed int64
		if err := tx.Model(&models.LessonCompletion{}).
			Where("enrollment_id = ?", enrollment.ID).Count(&completed).Error; err != nil {
			return err
		}
		var total int64
		if err := tx.Model(&models.ContentItem{}).
			Where("course_id = ?", enrollment.CourseID).Count(&total).Error; err != nil {
			return err
		}

		enrollment.Progress = models.ProgressPercent(int(completed), int(total))
		enrollment.Status = models.StatusForProgress(enrollment.Progress)
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"enrollment_id": enrollment.ID,
		"lesson_id":     lesson.ID,
		"completed":     input.Completed,
		"progress":      enrollment.Progress,
		"status":        enrollment.Status,
	})
}
