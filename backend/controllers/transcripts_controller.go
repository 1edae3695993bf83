package controllers

import (
	"encoding/json"
	"errors"
	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TranscriptsController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Transcriber services.Transcriber
}

func NewTranscriptsController(db *gorm.DB, cfg *config.Config, tr services.Transcriber) *TranscriptsController {
	return &TranscriptsController{DB: db, Cfg: cfg, Transcriber: tr}
}

// Transcribe proxies the external transcriber and returns the segments
// without storing them anywhere.
func (tc *TranscriptsController) Transcribe(c *fiber.Ctx) error {
	var input struct {
		VideoURL string `json:"video_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.VideoURL == "" {
		return utils.BadRequest(c, "video_url is required")
	}

	segments, err := tc.Transcriber.Transcribe(c.Context(), input.VideoURL)
	if err != nil {
		return utils.BadGateway(c, "Transcription failed")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"segments": segments,
	})
}

// TranscribeContent calls the transcriber for a video URL and stores
// the resulting segments on the content item. A transcriber failure
// leaves the item untouched.
func (tc *TranscriptsController) TranscribeContent(c *fiber.Ctx) error {
	item, errResp := tc.contentItem(c)
	if item == nil {
		return errResp
	}

	var input struct {
		VideoURL string `json:"video_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	videoURL := input.VideoURL
	if videoURL == "" {
		videoURL = item.FileURL
	}
	if videoURL == "" {
		return utils.BadRequest(c, "video_url is required")
	}

	segments, err := tc.Transcriber.Transcribe(c.Context(), videoURL)
	if err != nil {
		return utils.BadGateway(c, "Transcription failed")
	}

	if err := tc.storeTranscript(item, segments); err != nil {
		return utils.InternalServerError(c, "Could not store transcript")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"content_id": item.ID,
		"segments":   segments,
	})
}

// SaveTranscript stores a pre-computed transcript directly on the
// content item.
func (tc *TranscriptsController) SaveTranscript(c *fiber.Ctx) error {
	item, errResp := tc.contentItem(c)
	if item == nil {
		return errResp
	}

	var input struct {
		Transcript []models.TranscriptSegment `json:"transcript"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.Transcript) == 0 {
		return utils.BadRequest(c, "transcript is required")
	}

	if err := tc.storeTranscript(item, input.Transcript); err != nil {
		return utils.InternalServerError(c, "Could not store transcript")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"content_id": item.ID,
		"segments":   input.Transcript,
	})
}

func (tc *TranscriptsController) storeTranscript(item *models.ContentItem, segments []models.TranscriptSegment) error {
	raw, err := json.Marshal(segments)
	if err != nil {
		return err
	}
	item.Transcript = datatypes.JSON(raw)
	return tc.DB.Model(item).Update("transcript", item.Transcript).Error
}

func (tc *TranscriptsController) contentItem(c *fiber.Ctx) (*models.ContentItem, error) {
	contentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid content ID")
	}

	var item models.ContentItem
	if err := tc.DB.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Content item not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}

	return &item, nil
}
