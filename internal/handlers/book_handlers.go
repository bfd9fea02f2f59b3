package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarium/internal/dto"
	"librarium/internal/repositories"
	"librarium/internal/services"
)

func (api *API) createBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}
	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		writeValidationError(c, "invalid author id")
		return
	}

	var publishedDate *time.Time
	if req.PublishedDate != "" {
		parsed, err := parseDate(req.PublishedDate)
		if err != nil {
			writeValidationError(c, "invalid publishedDate")
			return
		}
		publishedDate = parsed
	}

	book, err := api.books.Create(req.Title, req.ISBN, publishedDate, authorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (api *API) listBooks(c *gin.Context) {
	var filter repositories.BookFilter

	if v := c.Query("authorId"); v != "" {
		authorID, err := uuid.Parse(v)
		if err != nil {
			writeValidationError(c, "invalid authorId filter")
			return
		}
		filter.AuthorID = &authorID
	}
	switch c.Query("available") {
	case "true":
		t := true
		filter.Available = &t
	case "false":
		f := false
		filter.Available = &f
	}
	filter.Search = c.Query("search")

	books, err := api.books.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (api *API) getBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid book id")
		return
	}

	detail, err := api.books.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (api *API) updateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid book id")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	params := services.UpdateBookParams{
		Title:     req.Title,
		ISBN:      req.ISBN,
		Available: req.Available,
	}
	if req.AuthorID != nil {
		authorID, err := uuid.Parse(*req.AuthorID)
		if err != nil {
			writeValidationError(c, "invalid author id")
			return
		}
		params.AuthorID = &authorID
	}
	if req.PublishedDate != nil && *req.PublishedDate != "" {
		parsed, err := parseDate(*req.PublishedDate)
		if err != nil {
			writeValidationError(c, "invalid publishedDate")
			return
		}
		params.PublishedDate = parsed
	}

	book, err := api.books.Update(id, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (api *API) deleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid book id")
		return
	}

	if err := api.books.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
