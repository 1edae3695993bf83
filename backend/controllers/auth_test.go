package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "student", user["role"]) // defaulted

	resp = doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decode(t, resp)
	assert.NotEmpty(t, result["token"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	register(t, "bob", "student")

	resp := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "bob",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	drain(resp)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "password123",
		"role":     "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	drain(resp)
}

func TestGetProfile(t *testing.T) {
	token := register(t, "carol", "tutor")

	resp := doJSON(t, "GET", "/api/user/profile", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, "carol", result["username"])
	assert.Equal(t, "tutor", result["role"])
}

func TestProfileRequiresToken(t *testing.T) {
	resp := doJSON(t, "GET", "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	drain(resp)
}
