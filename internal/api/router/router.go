package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/ben-gunnels/advert-bot/internal/api/handlers/slack"
)

func Setup(h *slack.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	r.GET("/", h.Health)
	r.POST("/slack/events", h.Events)

	return r
}
