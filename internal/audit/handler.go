package audit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/response"
)

func ListHandler(c *fiber.Ctx) error {
	f := Filter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		TargetID:   c.Query("target_id"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 20),
	}

	if actor := c.Query("actor_id"); actor != "" {
		id, err := strconv.ParseUint(actor, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid actor_id", nil)
		}
		actorID := uint(id)
		f.ActorID = &actorID
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return response.BadRequest(c, "Invalid from timestamp, expected RFC3339", nil)
		}
		f.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return response.BadRequest(c, "Invalid to timestamp, expected RFC3339", nil)
		}
		f.To = t
	}

	entries, total, err := List(database.DB, f)
	if err != nil {
		return response.InternalError(c, "Failed to query audit log")
	}

	return response.SuccessWithMeta(c, entries, response.CalculateMeta(f.Page, f.Limit, total), "")
}

func TargetHistoryHandler(c *fiber.Ctx) error {
	targetType := c.Params("target_type")
	targetID := c.Params("target_id")

	entries, err := ForTarget(database.DB, targetType, targetID)
	if err != nil {
		return response.InternalError(c, "Failed to query audit log")
	}

	return response.Success(c, entries, "")
}
