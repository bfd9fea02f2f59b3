package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarium/internal/dto"
	"librarium/internal/services"
)

func (api *API) createAuthor(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := parseDate(req.BirthDate)
		if err != nil {
			writeValidationError(c, "invalid birthDate")
			return
		}
		birthDate = parsed
	}

	author, err := api.authors.Create(req.Name, req.Bio, birthDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (api *API) listAuthors(c *gin.Context) {
	authors, err := api.authors.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (api *API) getAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid author id")
		return
	}

	author, err := api.authors.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (api *API) updateAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid author id")
		return
	}

	var req dto.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	params := services.UpdateAuthorParams{
		Name: req.Name,
		Bio:  req.Bio,
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		parsed, err := parseDate(*req.BirthDate)
		if err != nil {
			writeValidationError(c, "invalid birthDate")
			return
		}
		params.BirthDate = parsed
	}

	author, err := api.authors.Update(id, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (api *API) deleteAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid author id")
		return
	}

	if err := api.authors.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author deleted successfully"})
}
