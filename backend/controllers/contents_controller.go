package controllers

import (
	"errors"
	"project/backend/config"
	"project/backend/models"
	"project/backend/storage"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ContentsController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Files *storage.FileStore
}

func NewContentsController(db *gorm.DB, cfg *config.Config, files *storage.FileStore) *ContentsController {
	return &ContentsController{DB: db, Cfg: cfg, Files: files}
}

// GetContents returns a course's content items in display order.
func (cc *ContentsController) GetContents(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var items []models.ContentItem
	if err := cc.DB.Where("course_id = ?", courseID).Order("sequence ASC").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(items)
}

// AddContent appends a new item at the end of the course. The video
// upload happens before the row is created, so a failed upload leaves
// the course unchanged.
func (cc *ContentsController) AddContent(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	fileURL := c.FormValue("file_url")
	if file, err := c.FormFile("video"); err == nil {
		fileURL, err = cc.Files.SaveUpload(file)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store video",
			})
		}
	}

	item := models.ContentItem{
		CourseID:    course.ID,
		Title:       title,
		Description: c.FormValue("description"),
		FileURL:     fileURL,
		Duration:    c.FormValue("duration"),
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.ContentItem
		if err := tx.Where("course_id = ?", course.ID).Find(&items).Error; err != nil {
			return err
		}
		item.Sequence = models.NextSequence(items)
		return tx.Create(&item).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create content item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Content item added",
		"content": item,
	})
}

func (cc *ContentsController) UpdateContent(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	item, errResp := cc.courseContent(c, course.ID)
	if item == nil {
		return errResp
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		FileURL     string `json:"file_url"`
		Duration    string `json:"duration"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.FileURL != "" {
		item.FileURL = input.FileURL
	}
	if input.Duration != "" {
		item.Duration = input.Duration
	}

	if err := cc.DB.Save(item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update content item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Content item updated",
		"content": item,
	})
}

// DeleteContent removes one item and renumbers the rest so sequences
// stay contiguous from 1.
func (cc *ContentsController) DeleteContent(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	item, errResp := cc.courseContent(c, course.ID)
	if item == nil {
		return errResp
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		var items []models.ContentItem
		if err := tx.Where("course_id = ?", course.ID).Order("sequence ASC").Find(&items).Error; err != nil {
			return err
		}
		models.Renumber(items)
		for i := range items {
			if err := tx.Model(&items[i]).Update("sequence", items[i].Sequence).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete content item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Content item deleted",
	})
}

// MoveContent swaps the item with its neighbor above or below. Moving
// past the first or last position is a no-op.
func (cc *ContentsController) MoveContent(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	item, errResp := cc.courseContent(c, course.ID)
	if item == nil {
		return errResp
	}

	var input struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Direction != "up" && input.Direction != "down" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Direction must be up or down",
		})
	}

	var items []models.ContentItem
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Order("sequence ASC").Find(&items).Error; err != nil {
			return err
		}

		idx := -1
		for i := range items {
			if items[i].ID == item.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return gorm.ErrRecordNotFound
		}

		if !models.MoveAdjacent(items, idx, input.Direction == "up") {
			return nil // already first/last
		}

		// only the two swapped rows changed
		for _, i := range []int{idx, idx - 1, idx + 1} {
			if i < 0 || i >= len(items) {
				continue
			}
			if err := tx.Model(&items[i]).Update("sequence", items[i].Sequence).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not move content item",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Content order updated",
		"contents": items,
	})
}

// ReorderContent moves one item to an arbitrary 1-based position and
// renumbers every item of the course. All updates run in a single
// transaction so a partial renumber never survives.
func (cc *ContentsController) ReorderContent(c *fiber.Ctx) error {
	course, errResp := ownedCourse(c, cc.DB)
	if course == nil {
		return errResp
	}

	var input struct {
		ContentID uint `json:"content_id"`
		Position  int  `json:"position"` // 1-based destination
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var items []models.ContentItem
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Order("sequence ASC").Find(&items).Error; err != nil {
			return err
		}

		from := -1
		for i := range items {
			if items[i].ID == input.ContentID {
				from = i
				break
			}
		}
		if from < 0 {
			return gorm.ErrRecordNotFound
		}

		reordered, ok := models.MoveToPosition(items, from, input.Position-1)
		if !ok {
			return errInvalidPosition
		}
		items = reordered

		for i := range items {
			if err := tx.Model(&items[i]).Update("sequence", items[i].Sequence).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Content item not found",
			})
		}
		if errors.Is(err, errInvalidPosition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid position",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reorder content items",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Content order updated",
		"contents": items,
	})
}

var errInvalidPosition = errors.New("invalid position")

// courseContent loads the :contentId param and checks it belongs to
// the course.
func (cc *ContentsController) courseContent(c *fiber.Ctx, courseID uint) (*models.ContentItem, error) {
	contentID, err := strconv.Atoi(c.Params("contentId"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content ID",
		})
	}

	var item models.ContentItem
	if err := cc.DB.Where("id = ? AND course_id = ?", contentID, courseID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Content item not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return &item, nil
}
