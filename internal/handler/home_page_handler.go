package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/service"
	"github.com/globalaidnetwork/internal/view"
)

type appendBlockRequest struct {
	Type  string          `json:"type" binding:"required"`
	Value json.RawMessage `json:"value"`
}

type pageSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type pageDetail struct {
	pageSummary
	Body content.Stream `json:"body"`
}

type renderedBlockPayload struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Template string        `json:"template"`
	Value    content.Block `json:"value"`
	HTML     string        `json:"html"`
}

func summarizePage(page *db.HomePage) pageSummary {
	return pageSummary{
		ID:        page.ID,
		Title:     page.Title,
		Slug:      page.Slug,
		UpdatedAt: page.UpdatedAt,
	}
}

func (a *API) pageDetail(page *db.HomePage) (pageDetail, error) {
	body, err := a.pages.Body(page)
	if err != nil {
		return pageDetail{}, err
	}
	return pageDetail{pageSummary: summarizePage(page), Body: body}, nil
}

// ListPages returns every home page without its body.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list pages")
		return
	}

	items := make([]pageSummary, 0, len(pages))
	for i := range pages {
		items = append(items, summarizePage(&pages[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetPage returns a page with its decoded body.
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page id")
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		a.respondPageError(c, err, "failed to load page")
		return
	}
	a.respondPage(c, http.StatusOK, "", page)
}

// CreatePage validates and stores a new page.
func (a *API) CreatePage(c *gin.Context) {
	var input service.HomePageInput
	if !a.bindPageInput(c, &input) {
		return
	}

	page, err := a.pages.Create(input)
	if err != nil {
		a.respondPageError(c, err, "failed to create page")
		return
	}
	a.respondPage(c, http.StatusCreated, "page created", page)
}

// UpdatePage replaces title, slug and body of a page.
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page id")
		return
	}

	var input service.HomePageInput
	if !a.bindPageInput(c, &input) {
		return
	}

	page, err := a.pages.Update(id, input)
	if err != nil {
		a.respondPageError(c, err, "failed to update page")
		return
	}
	a.respondPage(c, http.StatusOK, "page updated", page)
}

// AppendPageBlock adds one block to the end of a page body.
func (a *API) AppendPageBlock(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page id")
		return
	}

	var req appendBlockRequest
	if !bindJSON(c, &req, "block type is required") {
		return
	}

	page, child, err := a.pages.AppendBlock(id, req.Type, req.Value)
	if err != nil {
		a.respondPageError(c, err, "failed to append block")
		return
	}

	detail, err := a.pageDetail(page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode page body")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "block appended", "block": child, "page": detail})
}

// DeletePage removes a page.
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page id")
		return
	}

	if err := a.pages.Delete(id); err != nil {
		a.respondPageError(c, err, "failed to delete page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "page deleted"})
}

// ShowHome renders the configured home page.
func (a *API) ShowHome(c *gin.Context) {
	a.showPage(c, a.homeSlug)
}

// ShowPage renders a page by slug.
func (a *API) ShowPage(c *gin.Context) {
	a.showPage(c, c.Param("slug"))
}

// GetRenderedPage returns the rendered blocks of a page as JSON.
func (a *API) GetRenderedPage(c *gin.Context) {
	page, rendered, body, err := a.renderPage(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrHomePageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		log.Printf("[render] %s: %v", c.Param("slug"), err)
		respondError(c, http.StatusInternalServerError, "failed to render page")
		return
	}

	blocks := make([]renderedBlockPayload, 0, len(rendered))
	for i, block := range rendered {
		blocks = append(blocks, renderedBlockPayload{
			ID:       block.ID,
			Type:     block.Type,
			Template: block.Template,
			Value:    body[i].Value,
			HTML:     string(block.HTML),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"title":  page.Title,
		"slug":   page.Slug,
		"blocks": blocks,
	})
}

func (a *API) showPage(c *gin.Context, slug string) {
	page, rendered, _, err := a.renderPage(slug)
	if err != nil {
		if errors.Is(err, service.ErrHomePageNotFound) {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{
				"title":   "Page not found",
				"message": "The page you are looking for does not exist.",
			})
			return
		}
		log.Printf("[render] %s: %v", slug, err)
		c.HTML(http.StatusInternalServerError, "not_found.html", gin.H{
			"title":   "Something went wrong",
			"message": "The page could not be rendered.",
		})
		return
	}

	c.HTML(http.StatusOK, "home_page.html", gin.H{
		"title":  page.Title,
		"page":   summarizePage(page),
		"blocks": rendered,
		"year":   time.Now().Year(),
	})
}

// renderPage loads a page, resolves its images and renders each block.
func (a *API) renderPage(slug string) (*db.HomePage, []view.RenderedBlock, content.Stream, error) {
	page, err := a.pages.GetBySlug(slug)
	if err != nil {
		return nil, nil, nil, err
	}

	body, err := a.pages.Body(page)
	if err != nil {
		return nil, nil, nil, err
	}

	images, err := a.images.Resolve(body.ImageIDs())
	if err != nil {
		return nil, nil, nil, err
	}

	rendered, err := a.renderer.RenderStream(body, images)
	if err != nil {
		return nil, nil, nil, err
	}
	return page, rendered, body, nil
}

func (a *API) bindPageInput(c *gin.Context, input *service.HomePageInput) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		if errors.Is(err, content.ErrUnknownBlockType) || errors.Is(err, content.ErrInvalidBlockValue) {
			respondError(c, http.StatusBadRequest, err.Error())
			return false
		}
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (a *API) respondPage(c *gin.Context, status int, message string, page *db.HomePage) {
	detail, err := a.pageDetail(page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode page body")
		return
	}

	payload := gin.H{"page": detail}
	if message != "" {
		payload["message"] = message
	}
	c.JSON(status, payload)
}

func (a *API) respondPageError(c *gin.Context, err error, fallback string) {
	if respondValidation(c, err) {
		return
	}

	switch {
	case errors.Is(err, service.ErrHomePageNotFound):
		respondError(c, http.StatusNotFound, "page not found")
	case errors.Is(err, service.ErrHomePageSlugTaken):
		respondError(c, http.StatusConflict, "slug is already in use")
	case errors.Is(err, content.ErrUnknownBlockType), errors.Is(err, content.ErrInvalidBlockValue):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[page] %s: %v", fallback, err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
