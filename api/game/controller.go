// Package gameapi handles the game endpoints: maps, players, actions, ticks and records.
package gameapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-roads/api/i"
	"github.com/beka-birhanu/vinom-roads/api/identity"
	"github.com/beka-birhanu/vinom-roads/game"
	"github.com/beka-birhanu/vinom-roads/game/roadmap"
	"github.com/beka-birhanu/vinom-roads/service"
	"github.com/gin-gonic/gin"
)

// GameController serves the game endpoints.
type GameController struct {
	world   i.World
	clock   i.Clock
	records i.Records
	stream  *Stream
}

// Config holds the dependencies of a GameController.
type Config struct {
	World   i.World
	Clock   i.Clock
	Records i.Records
	Stream  *Stream // optional
}

// NewGameController creates a GameController.
func NewGameController(c *Config) *GameController {
	return &GameController{
		world:   c.World,
		clock:   c.Clock,
		records: c.Records,
		stream:  c.Stream,
	}
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {
	maps := route.Group("/maps")
	{
		maps.GET("", gc.listMaps)
		maps.GET("/:id", gc.mapByID)
	}

	g := route.Group("/game")
	{
		g.POST("/join", gc.join)
		g.POST("/tick", gc.tick)
		g.GET("/records", gc.listRecords)
		if gc.stream != nil {
			g.GET("/stream", gc.stream.Serve)
		}
	}
}

// RegisterProtected registers routes that need a player token.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	g := route.Group("/game")
	{
		g.GET("/players", gc.players)
		g.GET("/state", gc.state)
		g.POST("/player/action", gc.action)
	}
}

func (gc *GameController) listMaps(ctx *gin.Context) {
	summaries := gc.world.Maps()
	resp := make([]MapSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, MapSummaryResponse{ID: s.ID, Name: s.Name})
	}
	ctx.JSON(http.StatusOK, resp)
}

func (gc *GameController) mapByID(ctx *gin.Context) {
	m, err := gc.world.Map(ctx.Param("id"))
	if err != nil {
		abort(ctx, http.StatusNotFound, i.CodeMapNotFound, "Map not found")
		return
	}
	ctx.JSON(http.StatusOK, newMapResponse(m))
}

func (gc *GameController) join(ctx *gin.Context) {
	var request JoinRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, "Join game request parse error")
		return
	}

	token, id, err := gc.world.Join(request.MapID, request.UserName)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrInvalidName):
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, "Invalid name")
		return
	case errors.Is(err, game.ErrMapNotFound):
		abort(ctx, http.StatusNotFound, i.CodeMapNotFound, "Map not found")
		return
	default:
		abort(ctx, http.StatusInternalServerError, i.CodeInternal, "Could not join the game")
		return
	}

	ctx.JSON(http.StatusOK, JoinResponse{AuthToken: token, PlayerID: id})
}

func (gc *GameController) players(ctx *gin.Context) {
	players, err := gc.world.Players(ctx.GetString(identity.ContextMapID))
	if err != nil {
		abort(ctx, http.StatusNotFound, i.CodeMapNotFound, "Map not found")
		return
	}
	ctx.JSON(http.StatusOK, newPlayersResponse(players))
}

func (gc *GameController) state(ctx *gin.Context) {
	s, err := gc.world.State(ctx.GetString(identity.ContextToken))
	if err != nil {
		abort(ctx, http.StatusUnauthorized, i.CodeUnknownToken, "Player token has not been found")
		return
	}
	ctx.JSON(http.StatusOK, newStateResponse(s))
}

func (gc *GameController) action(ctx *gin.Context) {
	var request ActionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Move == nil {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, "Failed to parse action")
		return
	}

	dir, err := roadmap.ParseDirection(*request.Move)
	if err != nil {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, "Failed to parse action")
		return
	}

	if !gc.world.Move(ctx.GetString(identity.ContextToken), ctx.GetString(identity.ContextMapID), dir) {
		abort(ctx, http.StatusUnauthorized, i.CodeUnknownToken, "Player token has not been found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{})
}

func (gc *GameController) tick(ctx *gin.Context) {
	if gc.clock.Autonomous() {
		abort(ctx, http.StatusBadRequest, i.CodeBadRequest, "Invalid endpoint")
		return
	}

	var request TickRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.TimeDelta == nil || *request.TimeDelta < 0 {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, "Failed to parse tick request JSON")
		return
	}

	gc.clock.Step(time.Duration(*request.TimeDelta) * time.Millisecond)
	ctx.JSON(http.StatusOK, gin.H{})
}

func (gc *GameController) listRecords(ctx *gin.Context) {
	start, err := queryInt(ctx, "start", 0)
	if err != nil {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, err.Error())
		return
	}
	maxItems, err := queryInt(ctx, "maxItems", service.MaxRecordsPage)
	if err != nil {
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, err.Error())
		return
	}

	records, err := gc.records.Records(ctx.Request.Context(), start, maxItems)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidArgument):
		abort(ctx, http.StatusBadRequest, i.CodeInvalidArgument, err.Error())
		return
	default:
		abort(ctx, http.StatusInternalServerError, i.CodeInternal, "Could not read records")
		return
	}

	ctx.JSON(http.StatusOK, newRecordsResponse(records))
}

func queryInt(ctx *gin.Context, key string, def int) (int, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func abort(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, i.ErrorResponse{Code: code, Message: message})
}
