package workflow

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/response"
)

type transitionRequest struct {
	Note string `json:"note"`
}

func entryAndActor(c *fiber.Ctx) (uint, uint, error) {
	entryID, err := c.ParamsInt("entry_id")
	if err != nil {
		return 0, 0, err
	}
	return uint(entryID), c.Locals("user_id").(uint), nil
}

func SubmitForReviewHandler(c *fiber.Ctx) error {
	entryID, actorID, err := entryAndActor(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body transitionRequest
	c.BodyParser(&body)

	entry, err := SubmitForReview(actorID, entryID, body.Note)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry submitted for review")
}

func ApproveHandler(c *fiber.Ctx) error {
	entryID, actorID, err := entryAndActor(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body transitionRequest
	c.BodyParser(&body)

	entry, err := Approve(actorID, entryID, body.Note)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry published")
}

func RejectHandler(c *fiber.Ctx) error {
	entryID, actorID, err := entryAndActor(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body transitionRequest
	c.BodyParser(&body)

	entry, err := Reject(actorID, entryID, body.Note)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry rejected")
}

func ArchiveHandler(c *fiber.Ctx) error {
	entryID, actorID, err := entryAndActor(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body transitionRequest
	c.BodyParser(&body)

	entry, err := Archive(actorID, entryID, body.Note)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry archived")
}

func RestoreHandler(c *fiber.Ctx) error {
	entryID, actorID, err := entryAndActor(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body transitionRequest
	c.BodyParser(&body)

	entry, err := Restore(actorID, entryID, body.Note)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry restored")
}

func HistoryHandler(c *fiber.Ctx) error {
	entryID, err := c.ParamsInt("entry_id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	history, err := History(uint(entryID))
	if err != nil {
		return response.InternalError(c, "Failed to load history")
	}

	return response.Success(c, history, "")
}

func StatsHandler(c *fiber.Ctx) error {
	contentTypeID, err := c.ParamsInt("content_type_id")
	if err != nil {
		return response.BadRequest(c, "Invalid content type ID", nil)
	}

	stats, err := Stats(uint(contentTypeID))
	if err != nil {
		return response.InternalError(c, "Failed to compute stats")
	}

	return response.Success(c, stats, "")
}
