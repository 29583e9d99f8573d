package apikey

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/response"
)

type createKeyRequest struct {
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

func CreateKeyHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createKeyRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	ownerID := body.OwnerID
	if ownerID == 0 {
		ownerID = actorID
	}

	key, raw, err := CreateKey(actorID, body.Name, ownerID)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, fiber.Map{
		"key":     key,
		"raw_key": raw,
	}, "API key created. Store the raw key now; it will not be shown again.")
}

func ListKeysHandler(c *fiber.Ctx) error {
	keys, err := ListKeys()
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, keys, "")
}

func RevokeKeyHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid key ID", nil)
	}

	if err := RevokeKey(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "API key revoked")
}

func UsageHandler(c *fiber.Ctx) error {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.BadRequest(c, "Invalid from timestamp, expected RFC3339", nil)
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.BadRequest(c, "Invalid to timestamp, expected RFC3339", nil)
		}
		to = t
	}

	summaries, err := Usage(from, to)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, summaries, "")
}

// RequireAPIKey guards public endpoints and meters each call.
func RequireAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-API-Key")
		if raw == "" {
			return response.Unauthorized(c, "Missing API key")
		}

		key, err := Authenticate(raw)
		if err != nil {
			return response.InternalError(c, "Failed to verify API key")
		}
		if key == nil {
			return response.Unauthorized(c, "Invalid API key")
		}

		if err := RecordUsage(key.ID, c.Path()); err != nil {
			slog.Warn("failed to record API key usage", "key_id", key.ID, "err", err)
		}

		c.Locals("api_key_id", key.ID)
		return c.Next()
	}
}
