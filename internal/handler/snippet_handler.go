package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/service"
)

// ListStatistics returns all statistic snippets.
func (a *API) ListStatistics(c *gin.Context) {
	items, err := a.statistics.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetStatistic returns one statistic snippet.
func (a *API) GetStatistic(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid statistic id")
		return
	}

	item, err := a.statistics.Get(id)
	if err != nil {
		a.respondSnippetError(c, err, "failed to load statistic")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateStatistic creates a statistic snippet.
func (a *API) CreateStatistic(c *gin.Context) {
	var input service.StatisticInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.statistics.Create(input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to create statistic")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "statistic created", "item": item})
}

// UpdateStatistic updates a statistic snippet.
func (a *API) UpdateStatistic(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid statistic id")
		return
	}

	var input service.StatisticInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.statistics.Update(id, input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to update statistic")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statistic updated", "item": item})
}

// DeleteStatistic removes a statistic snippet.
func (a *API) DeleteStatistic(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid statistic id")
		return
	}

	if err := a.statistics.Delete(id); err != nil {
		a.respondSnippetError(c, err, "failed to delete statistic")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statistic deleted"})
}

// ListNews returns all news snippets, newest first.
func (a *API) ListNews(c *gin.Context) {
	items, err := a.news.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetNews returns one news snippet.
func (a *API) GetNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	item, err := a.news.Get(id)
	if err != nil {
		a.respondSnippetError(c, err, "failed to load news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateNews creates a news snippet.
func (a *API) CreateNews(c *gin.Context) {
	var input service.NewsInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.news.Create(input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to create news")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "news created", "item": item})
}

// UpdateNews updates a news snippet.
func (a *API) UpdateNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	var input service.NewsInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.news.Update(id, input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to update news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "news updated", "item": item})
}

// DeleteNews removes a news snippet.
func (a *API) DeleteNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	if err := a.news.Delete(id); err != nil {
		a.respondSnippetError(c, err, "failed to delete news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "news deleted"})
}

// ListTestimonials returns all testimonial snippets.
func (a *API) ListTestimonials(c *gin.Context) {
	items, err := a.testimonials.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list testimonials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTestimonial returns one testimonial snippet.
func (a *API) GetTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	item, err := a.testimonials.Get(id)
	if err != nil {
		a.respondSnippetError(c, err, "failed to load testimonial")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateTestimonial creates a testimonial snippet.
func (a *API) CreateTestimonial(c *gin.Context) {
	var input service.TestimonialInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.testimonials.Create(input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to create testimonial")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "testimonial created", "item": item})
}

// UpdateTestimonial updates a testimonial snippet.
func (a *API) UpdateTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	var input service.TestimonialInput
	if !bindJSON(c, &input, "invalid request body") {
		return
	}

	item, err := a.testimonials.Update(id, input)
	if err != nil {
		a.respondSnippetError(c, err, "failed to update testimonial")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial updated", "item": item})
}

// DeleteTestimonial removes a testimonial snippet.
func (a *API) DeleteTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	if err := a.testimonials.Delete(id); err != nil {
		a.respondSnippetError(c, err, "failed to delete testimonial")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial deleted"})
}

func (a *API) respondSnippetError(c *gin.Context, err error, fallback string) {
	if respondValidation(c, err) {
		return
	}

	switch {
	case errors.Is(err, service.ErrStatisticNotFound):
		respondError(c, http.StatusNotFound, "statistic not found")
	case errors.Is(err, service.ErrNewsNotFound):
		respondError(c, http.StatusNotFound, "news not found")
	case errors.Is(err, service.ErrTestimonialNotFound):
		respondError(c, http.StatusNotFound, "testimonial not found")
	default:
		log.Printf("[snippet] %s: %v", fallback, err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
