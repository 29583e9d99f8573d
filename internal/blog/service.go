package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/workflow"
)

const targetType = "blog_post"

// sanitizer strips dangerous markup from post bodies on every write.
var sanitizer = bluemonday.UGCPolicy()

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func CreatePost(actorID uint, title, body, excerpt string, tags []string) (*models.BlogPost, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title", "title is required")
	}

	slug := Slugify(title)
	var existing models.BlogPost
	err := database.DB.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().Unix())
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.PersistenceError{Err: err}
	}

	post := models.BlogPost{
		Title:    title,
		Slug:     slug,
		Body:     sanitizer.Sanitize(body),
		Excerpt:  excerpt,
		Status:   models.StatusDraft,
		AuthorID: actorID,
	}
	if tags != nil {
		raw, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		post.Tags = datatypes.JSON(raw)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(post.ID), map[string]interface{}{
			"title": post.Title,
			"slug":  post.Slug,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &post, nil
}

func GetPost(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := database.DB.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("blog post")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &post, nil
}

// GetPublishedBySlug is the public read path: published posts only.
func GetPublishedBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := database.DB.
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		Preload("Author").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("blog post")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &post, nil
}

func ListPosts(status models.EntryStatus, includeArchived bool, page, limit int) ([]models.BlogPost, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	query := database.DB.Model(&models.BlogPost{})
	if includeArchived {
		query = query.Unscoped()
	} else {
		query = query.Where("status <> ?", models.StatusArchived)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var posts []models.BlogPost
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return posts, total, nil
}

func UpdatePost(actorID, id uint, title, body, excerpt string) (*models.BlogPost, error) {
	post, err := GetPost(id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		post.Title = title
	}
	if body != "" {
		post.Body = sanitizer.Sanitize(body)
	}
	if excerpt != "" {
		post.Excerpt = excerpt
	}
	post.UpdatedBy = actorID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetType, fmt.Sprint(post.ID), map[string]interface{}{
			"title": post.Title,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return post, nil
}

// ChangeStatus drives a post through the same transition table as content
// entries: permission check against the live set, then status + audit in
// one transaction.
func ChangeStatus(actorID, postID uint, to models.EntryStatus, note string, restoring bool) (*models.BlogPost, error) {
	db := database.DB

	post, err := GetPost(postID)
	if err != nil {
		return nil, err
	}

	var perm string
	if restoring {
		if post.Status != models.StatusArchived {
			return nil, &apperr.InvalidTransitionError{From: string(post.Status), To: "restore"}
		}
		to = workflow.RestoreTarget(post.PreviousStatus)
		perm = "content.update"
	} else {
		perm, err = workflow.RequiredPermission(post.Status, to)
		if err != nil {
			return nil, err
		}
	}

	allowed, err := authz.HasPermission(db, actorID, perm)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.ErrForbidden
	}

	from := post.Status

	err = db.Transaction(func(tx *gorm.DB) error {
		var current models.BlogPost
		if err := tx.First(&current, postID).Error; err != nil {
			return err
		}
		if current.Status != from {
			return &apperr.InvalidTransitionError{From: string(current.Status), To: string(to)}
		}

		current.Status = to
		current.UpdatedBy = actorID
		switch {
		case restoring:
			current.PreviousStatus = ""
		case to == models.StatusArchived:
			current.PreviousStatus = from
		case to == models.StatusPublished:
			now := time.Now()
			current.PublishedAt = &now
		}

		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		meta := map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		}
		if note != "" {
			meta["note"] = note
		}
		action := workflow.TransitionAction(to, restoring)
		if _, err := audit.Record(tx, actorID, action, targetType, fmt.Sprint(postID), meta); err != nil {
			return err
		}

		*post = current
		return nil
	})
	if err != nil {
		var transErr *apperr.InvalidTransitionError
		if errors.As(err, &transErr) {
			return nil, err
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	return post, nil
}
