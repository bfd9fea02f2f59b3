package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/dto"
)

func (api *API) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	user, token, err := api.auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{User: user, AccessToken: token})
}

func (api *API) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	user, token, err := api.auth.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{User: user, AccessToken: token})
}
