package controllers

import (
	"errors"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/storage"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Files *storage.FileStore
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, files *storage.FileStore) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Files: files}
}

// GetCourses returns the published catalog, optionally filtered.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	category := c.Query("category")
	level := c.Query("level")
	q := c.Query("q")

	query := cc.DB.Model(&models.Course{}).Where("status = ?", models.CoursePublished)

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if q != "" {
		query = query.Where("title LIKE ?", "%"+q+"%")
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"description":   course.Description,
			"price":         course.Price,
			"level":         course.Level,
			"duration":      course.Duration,
			"category":      course.Category,
			"tags":          course.Tags,
			"thumbnail_url": course.ThumbnailURL,
			"tutor_id":      course.TutorID,
		})
	}

	return c.JSON(result)
}

// GetCourseDetails returns one course with its contents in display
// order. Unpublished courses are visible only to their tutor.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	err = cc.DB.Preload("Contents", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if course.Status != models.CoursePublished && course.TutorID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"course": course,
	})
}

// GetTutorCourses lists the caller's own courses, drafts included.
func (cc *CoursesController) GetTutorCourses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var courses []models.Course
	if err := cc.DB.Where("tutor_id = ?", userID).Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(courses)
}

// CreateCourse accepts a multipart form so the thumbnail rides along
// with the fields. The thumbnail is stored first: when the upload
// fails, no course row is created.
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	price := 0
	if v := c.FormValue("price"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price",
			})
		}
		price = p
	}

	status := c.FormValue("status")
	if status == "" {
		status = models.CourseDraft
	}
	if !models.ValidCourseStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course status",
		})
	}

	thumbnailURL := ""
	if file, err := c.FormFile("thumbnail"); err == nil {
		thumbnailURL, err = cc.Files.SaveUpload(file)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store thumbnail",
			})
		}
	}

	course := models.Course{
		Title:        title,
		Description:  c.FormValue("description"),
		Price:        price,
		Level:        c.FormValue("level"),
		Duration:     c.FormValue("duration"),
		Category:     c.FormValue("category"),
		Tags:         c.FormValue("tags"),
		Status:       status,
		ThumbnailURL: thumbnailURL,
		TutorID:      userID,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

// UpdateCourse updates course fields; empty input fields are left alone.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       *int   `json:"price"`
		Level       string `json:"level"`
		Duration    string `json:"duration"`
		Category    string `json:"category"`
		Tags        string `json:"tags"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price",
			})
		}
		course.Price = *input.Price
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Duration != "" {
		course.Duration = input.Duration
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Tags != "" {
		course.Tags = input.Tags
	}

	if err := cc.DB.Save(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

// UpdateThumbnail replaces the course thumbnail. Upload first, course
// row second, so a failed upload leaves the course untouched.
func (cc *CoursesController) UpdateThumbnail(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Thumbnail file is required",
		})
	}

	url, err := cc.Files.SaveUpload(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store thumbnail",
		})
	}

	course.ThumbnailURL = url
	if err := cc.DB.Save(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message":       "Thumbnail updated",
		"thumbnail_url": url,
	})
}

func (cc *CoursesController) UpdateCourseStatus(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !models.ValidCourseStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course status",
		})
	}

	course.Status = input.Status
	if err := cc.DB.Save(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course status updated",
		"course":  course,
	})
}

// DeleteCourse removes the course and everything hanging off it in one
// transaction.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.ContentItem{}).Error; err != nil {
			return err
		}
		var enrollmentIDs []uint
		if err := tx.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).
			Pluck("id", &enrollmentIDs).Error; err != nil {
			return err
		}
		if len(enrollmentIDs) > 0 {
			if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&models.LessonCompletion{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted",
	})
}

// ownedCourse loads the course from the :id param and checks that the
// caller is its tutor. On failure the fiber response is already
// written; callers return it as-is.
func ownedCourse(c *fiber.Ctx, db *gorm.DB) (*models.Course, error) {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if course.TutorID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to manage this course",
		})
	}

	return &course, nil
}
