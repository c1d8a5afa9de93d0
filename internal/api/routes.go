package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/masquerade/internal/game"
)

// Register adds the read-only room API and the health probe to r.
func Register(r gin.IRouter, rm *game.RoomManager) {
	r.GET("/health", health)

	g := r.Group("/api/rooms")
	g.GET("", listRooms(rm))
	g.POST("/code", freeCode(rm))
	g.GET("/:id", getRoom(rm))
	g.GET("/:id/leaderboard", getLeaderboard(rm))
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
}

func listRooms(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": rm.Rooms()})
	}
}

func freeCode(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"roomId": rm.FreeCode()})
	}
}

func getRoom(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := rm.Room(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

func getLeaderboard(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		standings, err := rm.Leaderboard(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": c.Param("id"), "standings": standings})
	}
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, game.ErrUnknownRoom) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
}
