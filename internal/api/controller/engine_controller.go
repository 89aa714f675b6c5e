package controller

import (
	"errors"
	"net/http"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"

	"github.com/gin-gonic/gin"
)

// EngineController exposes the decision engine over HTTP.
type EngineController struct {
	engineService service.EngineService
}

// NewEngineController creates a new EngineController.
func NewEngineController(engineService service.EngineService) *EngineController {
	return &EngineController{
		engineService: engineService,
	}
}

// BestMove handles the best-move endpoint.
func (ec *EngineController) BestMove(c *gin.Context) {
	var req models.BestMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := ec.engineService.BestMove(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, statusFor(err), err.Error())
		return
	}

	response.SuccessResponse(c, res)
}

// Evaluate handles the position evaluation endpoint.
func (ec *EngineController) Evaluate(c *gin.Context) {
	var req models.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := ec.engineService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, statusFor(err), err.Error())
		return
	}

	response.SuccessResponse(c, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bot.ErrGameOver):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrInvalidBoard),
		errors.Is(err, game.ErrInvalidMark),
		errors.Is(err, bot.ErrInvalidMark):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
