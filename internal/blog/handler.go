package blog

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/response"
)

type postRequest struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

type transitionRequest struct {
	Note string `json:"note"`
}

func CreatePostHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body postRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	post, err := CreatePost(actorID, body.Title, body.Body, body.Excerpt, body.Tags)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, post, "Post created")
}

func ListPostsHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	posts, total, err := ListPosts(models.EntryStatus(c.Query("status")), false, page, limit)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, posts, response.CalculateMeta(page, limit, total), "")
}

func GetPostHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid post ID", nil)
	}

	post, err := GetPost(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, post, "")
}

func UpdatePostHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid post ID", nil)
	}

	var body postRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	post, err := UpdatePost(actorID, uint(id), body.Title, body.Body, body.Excerpt)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, post, "Post updated")
}

func transitionHandler(target models.EntryStatus, restoring bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := c.Locals("user_id").(uint)

		id, err := c.ParamsInt("id")
		if err != nil {
			return response.BadRequest(c, "Invalid post ID", nil)
		}

		var body transitionRequest
		c.BodyParser(&body)

		post, err := ChangeStatus(actorID, uint(id), target, body.Note, restoring)
		if err != nil {
			return response.HandleError(c, err)
		}

		return response.Success(c, post, message)
	}
}

var (
	SubmitForReviewHandler = transitionHandler(models.StatusInReview, false, "Post submitted for review")
	ApproveHandler         = transitionHandler(models.StatusPublished, false, "Post published")
	RejectHandler          = transitionHandler(models.StatusRejected, false, "Post rejected")
	ArchiveHandler         = transitionHandler(models.StatusArchived, false, "Post archived")
	RestoreHandler         = transitionHandler("", true, "Post restored")
)

// PublicGetHandler serves published posts without authentication.
func PublicGetHandler(c *fiber.Ctx) error {
	post, err := GetPublishedBySlug(c.Params("slug"))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, post, "")
}

func PublicListHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	posts, total, err := ListPosts(models.StatusPublished, false, page, limit)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, posts, response.CalculateMeta(page, limit, total), "")
}
