package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/realtime"
	"project/backend/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

// maximum number of messages returned by a single list call
const chatHistoryLimit = 100

type ChatController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Bus realtime.Bus
	Log *log.Logger
}

func NewChatController(db *gorm.DB, cfg *config.Config, bus realtime.Bus, logger *log.Logger) *ChatController {
	return &ChatController{DB: db, Cfg: cfg, Bus: bus, Log: logger}
}

// GetMessages returns the most recent messages of a course chat,
// ascending by creation time.
func (cc *ChatController) GetMessages(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var messages []models.ChatMessage
	err = cc.DB.Where("course_id = ?", courseID).
		Order("created_at DESC").Limit(chatHistoryLimit).
		Find(&messages).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	// newest-first from the query, flip to ascending for the feed
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return utils.Success(c, fiber.StatusOK, messages)
}

// PostMessage appends a message to the course chat. Blank or
// whitespace-only text is rejected before anything is persisted.
func (cc *ChatController) PostMessage(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return utils.BadRequest(c, "Message text is required")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	message := models.ChatMessage{
		CourseID: course.ID,
		UserID:   user.ID,
		UserName: user.Username,
		Text:     text,
	}
	if err := cc.DB.Create(&message).Error; err != nil {
		return utils.InternalServerError(c, "Could not create message")
	}

	// push delivery is best-effort; the message is already stored
	if err := cc.Bus.Publish(c.Context(), realtime.Event{CourseID: course.ID, Message: message}); err != nil {
		cc.Log.Printf("chat publish failed: %v", err)
	}

	return utils.Created(c, message)
}

// StreamMessages pushes new chat messages for one course over SSE. The
// bus subscription covers every course; events are filtered here by
// course id.
func (cc *ChatController) StreamMessages(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	events, cancel, err := cc.Bus.Subscribe(context.Background())
	if err != nil {
		return utils.InternalServerError(c, "Could not subscribe to chat")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for ev := range events {
			if ev.CourseID != uint(courseID) {
				continue
			}
			payload, err := json.Marshal(ev.Message)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
